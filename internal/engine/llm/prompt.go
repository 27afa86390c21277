package llm

import (
	"fmt"
	"strings"

	"github.com/irahardianto/mergescout/internal/engine/classify"
)

const promptTemplate = `You are assisting a developer whose merge of branch %q into branch %q is predicted to conflict. For each file below, suggest how to resolve the conflict. Respond ONLY with a JSON array matching the required schema, one entry per file, using the exact file paths given.

%s`

// maxDiffBytes bounds how much of each diff is sent to the model.
const maxDiffBytes = 4096

// BuildPrompt constructs an explanation prompt from classified conflict
// records. Paths iterate in the given order so the prompt is stable.
func BuildPrompt(currentRef, otherRef string, paths []string, files map[string]classify.Record) string {
	var b strings.Builder
	for _, path := range paths {
		rec, ok := files[path]
		if !ok {
			fmt.Fprintf(&b, "--- %s ---\n(no detail available)\n\n", path)
			continue
		}

		fmt.Fprintf(&b, "--- %s (%s) ---\n", path, rec.Type)
		if rec.Message != "" {
			b.WriteString(rec.Message + "\n")
		}
		if rec.Rename != nil {
			fmt.Fprintf(&b, "renamed %s to %s on the %s side\n", rec.Rename.OldPath, rec.Rename.NewPath, rec.Rename.Side)
		}
		if rec.Diff != "" {
			b.WriteString(truncate(rec.Diff, maxDiffBytes) + "\n")
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(promptTemplate, otherRef, currentRef, b.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n[diff truncated]"
}
