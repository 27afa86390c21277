// Package merge implements the two conflict-detection strategies: an
// index-based three-way merge simulation and a structural merge-report
// fallback, plus the parser for the report's free-text format.
package merge

import (
	"strings"
)

// Default bounds for the parser's forward scans. Both are empirical
// tunables, not protocol invariants: the metadata window only has to
// reach a base/our/their triplet, the marker window a typical hunk.
const (
	DefaultMetadataWindow = 8
	DefaultMarkerWindow   = 256
)

const conflictMarker = "<<<<<<<"

// structuralPrefixes are the report header lines that denote structural
// conflicts (delete/modify, add/add, mode). They carry no inline
// conflict markers, so they must trigger independently of marker
// detection; checking markers alone silently undercounts.
var structuralPrefixes = []string{
	"removed in local",
	"removed in remote",
	"added in local",
	"added in remote",
	"changed in both",
}

// Report is the parsed view of one structural merge report.
type Report struct {
	// Conflicts is authoritative: it may be true while Paths is empty
	// when the report was recognized as conflicting but unparseable.
	Conflicts bool
	// Paths lists candidate conflicting paths, ordered and unique.
	Paths []string
}

// ReportParser turns the merge tool's free-text report into a Report.
// It never fails on malformed input; garbage degrades to an empty path
// list while the conflict triggers remain in force.
type ReportParser struct {
	// MetadataWindow bounds the forward scan for per-side metadata
	// lines after a structural header.
	MetadataWindow int
	// MarkerWindow bounds the forward scan for an inline conflict
	// marker after a merged-result section.
	MarkerWindow int
}

// NewReportParser creates a parser with the default scan windows.
func NewReportParser() *ReportParser {
	return &ReportParser{
		MetadataWindow: DefaultMetadataWindow,
		MarkerWindow:   DefaultMarkerWindow,
	}
}

// Parse scans the report body line by line.
func (p *ReportParser) Parse(body string) Report {
	metaWindow := p.MetadataWindow
	if metaWindow <= 0 {
		metaWindow = DefaultMetadataWindow
	}
	markerWindow := p.MarkerWindow
	if markerWindow <= 0 {
		markerWindow = DefaultMarkerWindow
	}

	rep := Report{
		Conflicts: strings.Contains(body, conflictMarker),
	}
	if strings.TrimSpace(body) == "" {
		return rep
	}

	lines := strings.Split(body, "\n")
	seen := make(map[string]bool)
	record := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		rep.Paths = append(rep.Paths, path)
	}

	for i, line := range lines {
		if isStructuralHeader(line) {
			rep.Conflicts = true
			for j := i + 1; j < len(lines) && j <= i+metaWindow; j++ {
				if isSectionHeader(lines[j]) {
					break
				}
				if _, path, ok := splitSideLine(lines[j]); ok {
					record(path)
				}
			}
			continue
		}

		if strings.TrimSpace(line) == "merged" {
			path := ""
			start := i + 1
			for j := i + 1; j < len(lines) && j <= i+metaWindow; j++ {
				if isSectionHeader(lines[j]) {
					break
				}
				if side, p, ok := splitSideLine(lines[j]); ok && side == "result" {
					path = p
					start = j + 1
					break
				}
			}
			if path == "" {
				continue
			}
			for j := start; j < len(lines) && j <= start+markerWindow; j++ {
				if isSectionHeader(lines[j]) {
					break
				}
				if strings.Contains(lines[j], conflictMarker) {
					record(path)
					break
				}
			}
		}
	}

	return rep
}

// isStructuralHeader reports whether the line begins one of the
// structural-conflict sections.
func isStructuralHeader(line string) bool {
	for _, prefix := range structuralPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// isSectionHeader reports whether the line starts a new report section.
// Section headers start with a letter at column zero; metadata lines
// are indented and diff lines start with '@', '+', '-', or a space.
func isSectionHeader(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// splitSideLine parses a per-side metadata line of the shape
// "<side> <mode> <blob-id> <path>". The side label is one of base,
// our, their, or result.
func splitSideLine(line string) (side, path string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return "", "", false
	}
	switch fields[0] {
	case "base", "our", "their", "result":
	default:
		return "", "", false
	}
	return fields[0], strings.Join(fields[3:], " "), true
}
