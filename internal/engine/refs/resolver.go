// Package refs resolves branch, tag, and commit names to commit and
// tree ids, and discovers the repository's default branch.
package refs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// Resolution error kinds. All are terminal to the current check.
var (
	ErrHeadUnresolvable = errors.New("HEAD cannot be resolved to a branch or commit")
	ErrNoDefaultBranch  = errors.New("no default branch could be determined")
	ErrRefResolution    = errors.New("ref does not resolve to a commit")
)

// EmptyTreeFallback is git's well-known id for the tree with zero
// entries, used when the repository cannot compute it for us.
const EmptyTreeFallback = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Resolver answers ref and tree questions against one repository.
type Resolver struct {
	runner git.Runner
}

// NewResolver creates a Resolver backed by the given runner.
func NewResolver(r git.Runner) *Resolver {
	return &Resolver{runner: r}
}

// CurrentRef returns the symbolic branch name if HEAD is attached,
// otherwise a short commit id for a detached HEAD.
func (r *Resolver) CurrentRef(ctx context.Context) (string, error) {
	res, err := r.runner.Run(ctx, nil, "symbolic-ref", "--short", "-q", "HEAD")
	if err == nil && res.Ok() && res.Stdout != "" {
		return res.Stdout, nil
	}

	res, err = r.runner.Run(ctx, nil, "rev-parse", "--short", "HEAD")
	if err == nil && res.Ok() && res.Stdout != "" {
		return res.Stdout, nil
	}

	return "", ErrHeadUnresolvable
}

// DefaultBranch determines the branch to compare against when the user
// names none. Strategies, in order: each remote's symbolic HEAD
// (preferring a local branch of the same short name over the
// remote-tracking name), local main, local master, and finally the most
// recently committed-to local branch other than excluding.
func (r *Resolver) DefaultBranch(ctx context.Context, excluding string) (string, error) {
	log := logger.FromContext(ctx)

	for _, remote := range r.Remotes(ctx) {
		res, err := r.runner.Run(ctx, nil, "symbolic-ref", "--short", "refs/remotes/"+remote+"/HEAD")
		if err != nil || !res.Ok() || res.Stdout == "" {
			continue
		}
		tracking := res.Stdout // e.g. "origin/main"
		short := strings.TrimPrefix(tracking, remote+"/")
		if r.localBranchExists(ctx, short) {
			log.Debug("default branch from remote HEAD", "remote", remote, "branch", short)
			return short, nil
		}
		log.Debug("default branch from remote HEAD", "remote", remote, "branch", tracking)
		return tracking, nil
	}

	for _, name := range []string{"main", "master"} {
		if r.localBranchExists(ctx, name) {
			return name, nil
		}
	}

	res, err := r.runner.Run(ctx, nil, "for-each-ref", "refs/heads", "--sort=-committerdate", "--format=%(refname:short)")
	if err == nil && res.Ok() && res.Stdout != "" {
		for _, name := range strings.Split(res.Stdout, "\n") {
			name = strings.TrimSpace(name)
			if name != "" && name != excluding {
				log.Debug("default branch from most recent commit", "branch", name)
				return name, nil
			}
		}
	}

	return "", ErrNoDefaultBranch
}

// ResolveCommit verifies that ref names a commit. When it does not, the
// remote-tracking form "<remote>/<ref>" is tried for every configured
// remote in listing order; the first that resolves wins and its name
// replaces the user-visible ref for the rest of the run.
func (r *Resolver) ResolveCommit(ctx context.Context, ref string) (commit, resolved string, err error) {
	if id, ok := r.commitID(ctx, ref); ok {
		return id, ref, nil
	}

	for _, remote := range r.Remotes(ctx) {
		candidate := remote + "/" + ref
		if id, ok := r.commitID(ctx, candidate); ok {
			logger.FromContext(ctx).Debug("ref rewritten to remote-tracking name", "ref", ref, "resolved", candidate)
			return id, candidate, nil
		}
	}

	return "", "", fmt.Errorf("%w: %s", ErrRefResolution, ref)
}

// MergeBase returns the most recent common ancestor of the two commits.
// ok is false when the histories are unrelated.
func (r *Resolver) MergeBase(ctx context.Context, ours, theirs string) (base string, ok bool) {
	res, err := r.runner.Run(ctx, nil, "merge-base", ours, theirs)
	if err != nil || !res.Ok() || res.Stdout == "" {
		return "", false
	}
	return res.Stdout, true
}

// TreeOf returns the tree id of rev, or fallback when rev is empty or
// does not resolve to a tree.
func (r *Resolver) TreeOf(ctx context.Context, rev, fallback string) string {
	if rev == "" {
		return fallback
	}
	res, err := r.runner.Run(ctx, nil, "rev-parse", "--verify", "--quiet", rev+"^{tree}")
	if err != nil || !res.Ok() || res.Stdout == "" {
		return fallback
	}
	return res.Stdout
}

// EmptyTreeID returns the id of the tree with zero entries, computed by
// the repository itself so it agrees with the hash algorithm in use,
// with a well-known fallback.
func (r *Resolver) EmptyTreeID(ctx context.Context) string {
	res, err := r.runner.Run(ctx, nil, "hash-object", "-t", "tree", os.DevNull)
	if err != nil || !res.Ok() || res.Stdout == "" {
		return EmptyTreeFallback
	}
	return res.Stdout
}

// Remotes lists configured remotes in git's listing order.
func (r *Resolver) Remotes(ctx context.Context) []string {
	res, err := r.runner.Run(ctx, nil, "remote")
	if err != nil || !res.Ok() || res.Stdout == "" {
		return nil
	}
	var remotes []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			remotes = append(remotes, line)
		}
	}
	return remotes
}

func (r *Resolver) localBranchExists(ctx context.Context, name string) bool {
	res, err := r.runner.Run(ctx, nil, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil && res.Ok()
}

func (r *Resolver) commitID(ctx context.Context, ref string) (string, bool) {
	res, err := r.runner.Run(ctx, nil, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil || !res.Ok() || res.Stdout == "" {
		return "", false
	}
	return res.Stdout, true
}
