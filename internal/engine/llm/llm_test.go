package llm

import (
	"strings"
	"testing"

	"github.com/irahardianto/mergescout/internal/engine/classify"
)

func TestBuildPrompt_IncludesRecords(t *testing.T) {
	files := map[string]classify.Record{
		"a.txt": {
			Type:    classify.TypeContent,
			Message: "both sides changed a.txt",
			Diff:    "@@ -1 +1 @@\n-old\n+new",
		},
		"b.txt": {
			Type: classify.TypeRenameModify,
			Rename: &classify.Rename{
				OldPath: "b.txt",
				NewPath: "c.txt",
				Side:    classify.SideTheirs,
			},
		},
	}

	prompt := BuildPrompt("main", "feature", []string{"a.txt", "b.txt"}, files)

	for _, want := range []string{
		`"feature" into branch "main"`,
		"--- a.txt (content) ---",
		"both sides changed a.txt",
		"+new",
		"--- b.txt (rename_modify) ---",
		"renamed b.txt to c.txt on the theirs side",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q\nPrompt:\n%s", want, prompt)
		}
	}

	// Records appear in the given path order.
	if strings.Index(prompt, "--- a.txt") > strings.Index(prompt, "--- b.txt") {
		t.Error("expected records in path order")
	}
}

func TestBuildPrompt_TruncatesLongDiffs(t *testing.T) {
	files := map[string]classify.Record{
		"big.txt": {
			Type: classify.TypeContent,
			Diff: strings.Repeat("x", maxDiffBytes+100),
		},
	}

	prompt := BuildPrompt("main", "feature", []string{"big.txt"}, files)
	if !strings.Contains(prompt, "[diff truncated]") {
		t.Error("expected truncation marker for an oversized diff")
	}
}

func TestBuildPrompt_MissingRecord(t *testing.T) {
	prompt := BuildPrompt("main", "feature", []string{"mystery.bin"}, nil)
	if !strings.Contains(prompt, "--- mystery.bin ---") {
		t.Error("expected a section even without classification detail")
	}
}

func TestFilterHints_DiscardsUnknownPaths(t *testing.T) {
	hints := []Hint{
		{Path: "a.txt", Hint: "keep ours"},
		{Path: "invented.go", Hint: "hallucinated"},
		{Path: "b.txt", Hint: "keep theirs"},
	}

	got := FilterHints(hints, []string{"a.txt", "b.txt"})
	if len(got) != 2 {
		t.Fatalf("expected 2 hints, got %d", len(got))
	}
	for _, h := range got {
		if h.Path == "invented.go" {
			t.Error("hallucinated path survived filtering")
		}
	}
}

func TestFilterHints_DropsEmptyAndDuplicates(t *testing.T) {
	hints := []Hint{
		{Path: "a.txt", Hint: ""},
		{Path: "b.txt", Hint: "first"},
		{Path: "b.txt", Hint: "second"},
	}

	got := FilterHints(hints, []string{"a.txt", "b.txt"})
	if len(got) != 1 {
		t.Fatalf("expected 1 hint, got %d", len(got))
	}
	if got[0].Hint != "first" {
		t.Errorf("expected the first duplicate to win, got %q", got[0].Hint)
	}
}

func TestFilterHints_Empty(t *testing.T) {
	if got := FilterHints(nil, []string{"a.txt"}); got != nil {
		t.Errorf("expected nil for no hints, got %v", got)
	}
}
