// Package scratch manages the ephemeral index file used to simulate a
// three-way merge without touching the repository's real index.
package scratch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/platform/logger"
)

var (
	// ErrAllocation is returned when the scratch index file cannot be created.
	ErrAllocation = errors.New("cannot allocate scratch index")
	// ErrNotInitialized is returned when Run is called before Create.
	ErrNotInitialized = errors.New("scratch index not initialized")
)

// Index is an ephemeral, process-private index. It is owned exclusively
// by one detection run and must be released on every exit path.
type Index struct {
	runner   git.Runner
	path     string
	released bool
}

// New creates an unallocated Index backed by the given runner.
func New(r git.Runner) *Index {
	return &Index{runner: r}
}

// Create allocates a uniquely named index file inside the git dir.
func (i *Index) Create(ctx context.Context) error {
	res, err := i.runner.Run(ctx, nil, "rev-parse", "--absolute-git-dir")
	if err != nil || !res.Ok() || res.Stdout == "" {
		return fmt.Errorf("%w: locating git dir: %s", ErrAllocation, res.Stderr)
	}

	path := filepath.Join(res.Stdout, "mergescout-index-"+uuid.NewString())
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	i.path = path
	i.released = false
	return nil
}

// Run executes a git subcommand with this index bound as the only index
// the subcommand observes. The repository's real index is never touched.
func (i *Index) Run(ctx context.Context, args ...string) (git.Result, error) {
	if i.path == "" {
		return git.Result{}, ErrNotInitialized
	}
	return i.runner.Run(ctx, map[string]string{"GIT_INDEX_FILE": i.path}, args...)
}

// Path returns the backing file path, or "" before Create.
func (i *Index) Path() string {
	return i.path
}

// Release removes the backing file. Idempotent; removal errors are
// swallowed because a dangling scratch file must never mask the result.
func (i *Index) Release(ctx context.Context) {
	if i.released || i.path == "" {
		return
	}
	i.released = true
	if err := os.Remove(i.path); err != nil && !os.IsNotExist(err) {
		logger.FromContext(ctx).Debug("scratch index removal failed", "path", i.path, "error", err)
	}
}
