package formatter

import (
	"fmt"
	"strings"

	"github.com/irahardianto/mergescout/internal/engine/classify"
	"github.com/irahardianto/mergescout/internal/engine/detect"
)

// ANSI color codes.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiDim    = "\033[2m"
)

// CLIFormatter outputs a detection result as a human-readable CLI report.
type CLIFormatter struct {
	Color   bool
	Verbose bool
}

// NewCLIFormatter creates a new CLIFormatter.
func NewCLIFormatter(color, verbose bool) *CLIFormatter {
	return &CLIFormatter{Color: color, Verbose: verbose}
}

// Format returns a formatted CLI report.
func (f *CLIFormatter) Format(result *detect.Result) string {
	var b strings.Builder

	// Header
	merge := fmt.Sprintf("%s ← %s",
		f.colorize(result.CurrentRef, ansiBold),
		f.colorize(result.OtherRef, ansiBold))

	if !result.Conflicts {
		b.WriteString(fmt.Sprintf("\n%s %s merges cleanly\n", f.colorize("✅", ansiGreen), merge))
		f.writeBase(&b, result)
		return b.String()
	}

	noun := "conflicting file"
	if len(result.ConflictedFiles) != 1 {
		noun += "s"
	}
	if len(result.ConflictedFiles) == 0 {
		b.WriteString(fmt.Sprintf("\n%s %s would conflict\n", f.colorize("❌", ansiRed), merge))
	} else {
		b.WriteString(fmt.Sprintf("\n%s %s would conflict — %d %s\n",
			f.colorize("❌", ansiRed), merge, len(result.ConflictedFiles), noun))
	}
	f.writeBase(&b, result)

	for _, path := range result.ConflictedFiles {
		rec, ok := result.Files[path]
		if !ok {
			b.WriteString(fmt.Sprintf("  %s %s\n", f.colorize("❌", ansiRed), f.colorize(path, ansiBold)))
			continue
		}
		f.writeRecord(&b, path, rec)
	}

	return b.String()
}

func (f *CLIFormatter) writeBase(b *strings.Builder, result *detect.Result) {
	if result.MergeBase != nil {
		b.WriteString(fmt.Sprintf("  %s\n\n", f.colorize("merge base "+short(*result.MergeBase), ansiDim)))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n\n", f.colorize("no common ancestor", ansiYellow)))
	}
}

func (f *CLIFormatter) writeRecord(b *strings.Builder, path string, rec classify.Record) {
	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		f.colorize("❌", ansiRed),
		f.colorize(path, ansiBold),
		f.colorize("["+string(rec.Type)+"]", ansiDim)))

	if rec.Message != "" {
		b.WriteString(fmt.Sprintf("     %s\n", f.colorize(rec.Message, ansiYellow)))
	}
	if rec.Rename != nil {
		b.WriteString(fmt.Sprintf("     %s\n",
			f.colorize(fmt.Sprintf("renamed %s → %s (%s)", rec.Rename.OldPath, rec.Rename.NewPath, rec.Rename.Side), ansiCyan)))
	}
	if rec.Hint != "" {
		b.WriteString(fmt.Sprintf("     💡 %s\n", rec.Hint))
	}

	if f.Verbose && rec.Diff != "" {
		b.WriteString(fmt.Sprintf("\n     %s\n", f.colorize("--- diff ---", ansiDim)))
		for _, line := range strings.Split(rec.Diff, "\n") {
			b.WriteString(fmt.Sprintf("     %s\n", f.colorizeDiffLine(line)))
		}
	}
}

func (f *CLIFormatter) colorizeDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+"):
		return f.colorize(line, ansiGreen)
	case strings.HasPrefix(line, "-"):
		return f.colorize(line, ansiRed)
	default:
		return f.colorize(line, ansiDim)
	}
}

func (f *CLIFormatter) colorize(s, code string) string {
	if !f.Color {
		return s
	}
	return code + s + ansiReset
}

func short(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
