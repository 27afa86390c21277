package detect

import (
	"context"
	"errors"
	"fmt"

	"github.com/irahardianto/mergescout/internal/engine/classify"
	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/engine/merge"
	"github.com/irahardianto/mergescout/internal/engine/refs"
	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// Terminal error kinds surfaced to the CLI boundary.
var (
	ErrNotARepository = errors.New("not a git repository")
	ErrSameRef        = errors.New("cannot compare a ref with itself")
)

// Options controls one detection run.
type Options struct {
	// OtherRef names the branch to merge in. Empty means discover the
	// repository's default branch.
	OtherRef string
	// WantDiffs populates per-file records with classification detail
	// and unified diffs.
	WantDiffs bool
	// Fetch runs a best-effort fetch of all remotes before resolving.
	Fetch bool
}

// Pipeline wires the resolver, simulator, and classifier into one
// sequential detection flow. It holds no state across invocations.
type Pipeline struct {
	runner     git.Runner
	resolver   *refs.Resolver
	simulator  *merge.Simulator
	classifier *classify.Classifier
}

// NewPipeline creates a Pipeline. A nil parser selects the default
// report-scan windows.
func NewPipeline(r git.Runner, parser *merge.ReportParser) *Pipeline {
	return &Pipeline{
		runner:     r,
		resolver:   refs.NewResolver(r),
		simulator:  merge.NewSimulator(r, parser),
		classifier: classify.NewClassifier(r),
	}
}

// Detect predicts whether merging the other ref into the current branch
// would conflict. No persistent repository state is mutated; the only
// ephemeral state is one scratch index, released before Detect returns.
func (p *Pipeline) Detect(ctx context.Context, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)

	res, err := p.runner.Run(ctx, nil, "rev-parse", "--git-dir")
	if err != nil || !res.Ok() {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, res.Stderr)
	}

	if opts.Fetch {
		if fres, ferr := p.runner.Run(ctx, nil, "fetch", "--all", "--quiet"); ferr != nil || !fres.Ok() {
			log.Debug("fetch failed, continuing with local refs", "stderr", fres.Stderr)
		}
	}

	current, err := p.resolver.CurrentRef(ctx)
	if err != nil {
		return nil, err
	}

	other := opts.OtherRef
	if other == "" {
		other, err = p.resolver.DefaultBranch(ctx, current)
		if err != nil {
			return nil, err
		}
		log.Debug("discovered default branch", "branch", other)
	}

	oursCommit, currentRef, err := p.resolver.ResolveCommit(ctx, current)
	if err != nil {
		return nil, err
	}
	theirsCommit, otherRef, err := p.resolver.ResolveCommit(ctx, other)
	if err != nil {
		return nil, err
	}

	if currentRef == otherRef {
		return nil, fmt.Errorf("%w: %s", ErrSameRef, otherRef)
	}

	result := &Result{
		CurrentRef:      currentRef,
		OtherRef:        otherRef,
		OursCommit:      oursCommit,
		TheirsCommit:    theirsCommit,
		ConflictedFiles: []string{},
	}

	base, hasBase := p.resolver.MergeBase(ctx, oursCommit, theirsCommit)
	if hasBase {
		result.MergeBase = &base
	} else {
		log.Debug("no common ancestor, using the empty tree as base")
	}

	emptyTree := p.resolver.EmptyTreeID(ctx)
	baseTree := p.resolver.TreeOf(ctx, base, emptyTree)
	oursTree := p.resolver.TreeOf(ctx, oursCommit, emptyTree)
	theirsTree := p.resolver.TreeOf(ctx, theirsCommit, emptyTree)

	paths, ran, err := p.simulator.SimulateIndexMerge(ctx, baseTree, oursTree, theirsTree)
	if err != nil {
		return nil, err
	}

	switch {
	case len(paths) > 0:
		// Short-circuit: the fallback is never consulted once the
		// simulation reports conflicts.
		result.Conflicts = true
		result.ConflictedFiles = paths
	case !ran:
		// The simulation could not run; the structural report is the
		// only evidence left.
		reportBase := base
		if reportBase == "" {
			reportBase = emptyTree
		}
		rep := p.simulator.StructuralReport(ctx, reportBase, oursCommit, theirsCommit)
		// The boolean is authoritative even when the parser recovered
		// no paths from the report.
		result.Conflicts = rep.Conflicts
		if len(rep.Paths) > 0 {
			result.ConflictedFiles = rep.Paths
		}
	}

	if result.Conflicts && opts.WantDiffs && len(result.ConflictedFiles) > 0 {
		result.Files = make(map[string]classify.Record, len(result.ConflictedFiles))
		for _, path := range result.ConflictedFiles {
			result.Files[path] = p.classifier.Classify(ctx, base, oursCommit, theirsCommit, path)
		}
	}

	log.Info("conflict check complete",
		"current", result.CurrentRef,
		"other", result.OtherRef,
		"conflicts", result.Conflicts,
		"files", len(result.ConflictedFiles),
	)
	return result, nil
}
