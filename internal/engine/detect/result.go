// Package detect orchestrates ref resolution, the two detection
// strategies, and classification into one conflict check result.
package detect

import (
	"github.com/irahardianto/mergescout/internal/engine/classify"
)

// Result is the aggregate outcome of one conflict check. It is created
// once per invocation and write-once: fields are only appended, never
// mutated after being set. The JSON shape is the external contract for
// CI consumers.
type Result struct {
	CurrentRef   string `json:"current_ref"`
	OtherRef     string `json:"other_ref"`
	OursCommit   string `json:"ours_commit"`
	TheirsCommit string `json:"theirs_commit"`
	// MergeBase is null when the histories share no common ancestor.
	MergeBase *string `json:"merge_base"`
	Conflicts bool    `json:"conflicts"`
	// ConflictedFiles is ordered and unique. It may be empty while
	// Conflicts is true when the fallback report was unparseable.
	ConflictedFiles []string `json:"conflicted_files"`
	// Files is populated only when per-file detail was requested.
	Files map[string]classify.Record `json:"files,omitempty"`
}
