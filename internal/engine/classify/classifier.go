// Package classify determines the conflict kind for each candidate
// path, detecting renames on either side relative to the merge base.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// Type is the kind of a conflict.
type Type string

const (
	TypeContent      Type = "content"
	TypeRenameModify Type = "rename_modify"
	TypeModifyRename Type = "modify_rename"
	TypeDeleteModify Type = "delete_modify"
	TypeModifyDelete Type = "modify_delete"
)

// Side names the branch side responsible for a rename.
type Side string

const (
	SideOurs   Side = "ours"
	SideTheirs Side = "theirs"
)

// Rename describes a rename detected on one side of the merge.
type Rename struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	Side    Side   `json:"side"`
}

// Record is the classified detail for one conflicting path.
type Record struct {
	Path    string  `json:"-"`
	Type    Type    `json:"conflict_type"`
	Message string  `json:"message,omitempty"`
	Rename  *Rename `json:"rename,omitempty"`
	// Diff is withheld (empty) when the comparison produced no textual
	// output, e.g. binary content. The path remains conflicting.
	Diff string `json:"diff,omitempty"`
	// Hint is an optional model-suggested resolution, filled in after
	// classification when explanations are requested.
	Hint string `json:"hint,omitempty"`
}

// Classifier decides conflict kind and produces per-path detail.
type Classifier struct {
	runner git.Runner
}

// NewClassifier creates a Classifier backed by the given runner.
func NewClassifier(r git.Runner) *Classifier {
	return &Classifier{runner: r}
}

// Classify produces exactly one Record for the candidate path.
// mergeBase may be empty when the histories are unrelated; rename
// detection is skipped in that case.
func (c *Classifier) Classify(ctx context.Context, mergeBase, ours, theirs, path string) Record {
	if mergeBase != "" {
		oursRename := c.renameOf(ctx, mergeBase, ours, path)
		theirsRename := c.renameOf(ctx, mergeBase, theirs, path)

		switch {
		case oursRename != nil && theirsRename == nil:
			oursRename.Side = SideOurs
			return Record{
				Path:    path,
				Type:    TypeRenameModify,
				Message: fmt.Sprintf("your side renamed %s to %s; the other side modified %s", path, oursRename.NewPath, path),
				Rename:  oursRename,
				Diff:    c.blobDiff(ctx, ours+":"+oursRename.NewPath, theirs+":"+path),
			}
		case theirsRename != nil && oursRename == nil:
			theirsRename.Side = SideTheirs
			return Record{
				Path:    path,
				Type:    TypeModifyRename,
				Message: fmt.Sprintf("the other side renamed %s to %s; your side modified %s", path, theirsRename.NewPath, path),
				Rename:  theirsRename,
				Diff:    c.blobDiff(ctx, ours+":"+path, theirs+":"+theirsRename.NewPath),
			}
		}
		// Neither side renamed, or both did: fall through to the
		// content comparison.
	}

	diff, deletion := c.pathDiff(ctx, ours, theirs, path)
	switch deletion {
	case deletedInOurs:
		return Record{
			Path:    path,
			Type:    TypeDeleteModify,
			Message: fmt.Sprintf("your side deleted %s; the other side modified it", path),
			Diff:    diff,
		}
	case deletedInTheirs:
		return Record{
			Path:    path,
			Type:    TypeModifyDelete,
			Message: fmt.Sprintf("the other side deleted %s; your side modified it", path),
			Diff:    diff,
		}
	}

	return Record{
		Path:    path,
		Type:    TypeContent,
		Message: fmt.Sprintf("both sides modified %s", path),
		Diff:    diff,
	}
}

type deletionSide int

const (
	deletedNowhere deletionSide = iota
	deletedInOurs
	deletedInTheirs
)

// pathDiff computes the path-scoped diff between the two commits, with
// rename detection enabled for display only, and inspects the headers
// for a one-sided deletion.
//
// Diffing ours against theirs, a file absent from ours appears as newly
// added, so "new file mode" means ours deleted it; "deleted file mode"
// means theirs did.
func (c *Classifier) pathDiff(ctx context.Context, ours, theirs, path string) (string, deletionSide) {
	res, err := c.runner.Run(ctx, nil, "diff", "-M", ours, theirs, "--", path)
	if err != nil {
		logger.FromContext(ctx).Debug("path diff failed", "path", path, "error", err)
		return "", deletedNowhere
	}

	side := deletedNowhere
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.HasPrefix(line, "new file mode ") {
			side = deletedInOurs
			break
		}
		if strings.HasPrefix(line, "deleted file mode ") {
			side = deletedInTheirs
			break
		}
	}

	return diffText(res), side
}

// blobDiff compares two rev:path blobs, keeping the ours side on the
// left of the comparison.
func (c *Classifier) blobDiff(ctx context.Context, left, right string) string {
	res, err := c.runner.Run(ctx, nil, "diff", left, right)
	if err != nil {
		logger.FromContext(ctx).Debug("rename diff failed", "left", left, "right", right, "error", err)
		return ""
	}
	return diffText(res)
}

// diffText returns the textual diff, or "" when both output streams are
// blank after trimming (the diff is then considered absent).
func diffText(res git.Result) string {
	if strings.TrimSpace(res.Stdout) == "" && strings.TrimSpace(res.Stderr) == "" {
		return ""
	}
	return res.Stdout
}

// renameOf lists similarity-detected renames between base and commit
// and returns the one whose old name equals path, if any.
func (c *Classifier) renameOf(ctx context.Context, base, commit, path string) *Rename {
	res, err := c.runner.Run(ctx, nil, "diff", "-M", "--name-status", "--diff-filter=R", base, commit)
	if err != nil || !res.Ok() {
		// A failed rename lookup degrades to "no rename seen".
		logger.FromContext(ctx).Debug("rename detection failed", "base", base, "commit", commit, "error", err)
		return nil
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		// Format: "R<score>\t<old>\t<new>"
		fields := strings.Split(line, "\t")
		if len(fields) != 3 || !strings.HasPrefix(fields[0], "R") {
			continue
		}
		if fields[1] == path {
			return &Rename{OldPath: fields[1], NewPath: fields[2]}
		}
	}
	return nil
}
