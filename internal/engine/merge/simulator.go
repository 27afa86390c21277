package merge

import (
	"context"
	"strings"

	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/engine/scratch"
	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// Simulator runs the two detection strategies. The index simulation is
// primary; the structural report is consulted only when the simulation
// finds nothing.
type Simulator struct {
	runner git.Runner
	parser *ReportParser
}

// NewSimulator creates a Simulator using the given runner and parser.
func NewSimulator(r git.Runner, p *ReportParser) *Simulator {
	if p == nil {
		p = NewReportParser()
	}
	return &Simulator{runner: r, parser: p}
}

// SimulateIndexMerge performs a three-way tree merge into a fresh
// scratch index and returns the paths still unmerged afterwards,
// deduplicated across merge stages, in first-seen order.
//
// An execution failure of the merge step is not a conflict finding and
// not fatal: it degrades to "zero found" with ran=false, telling the
// caller to consult the fallback strategy. Only a scratch allocation
// failure is returned as an error. The scratch index is released on
// every path.
func (s *Simulator) SimulateIndexMerge(ctx context.Context, base, ours, theirs string) (paths []string, ran bool, err error) {
	log := logger.FromContext(ctx)

	idx := scratch.New(s.runner)
	if err := idx.Create(ctx); err != nil {
		return nil, false, err
	}
	defer idx.Release(ctx)

	res, err := idx.Run(ctx, "read-tree", "-i", "-m", base, ours, theirs)
	if err != nil || !res.Ok() {
		log.Debug("read-tree simulation failed, deferring to fallback", "exit", res.ExitCode, "stderr", res.Stderr)
		return nil, false, nil
	}

	res, err = idx.Run(ctx, "ls-files", "--unmerged")
	if err != nil || !res.Ok() {
		log.Debug("listing unmerged entries failed, deferring to fallback", "exit", res.ExitCode, "stderr", res.Stderr)
		return nil, false, nil
	}

	return parseUnmerged(res.Stdout), true, nil
}

// StructuralReport requests a read-only structural merge report between
// the three revisions and parses it. A failed report fetch degrades to
// "no information" rather than aborting the run.
func (s *Simulator) StructuralReport(ctx context.Context, mergeBase, ours, theirs string) Report {
	res, err := s.runner.Run(ctx, nil, "merge-tree", mergeBase, ours, theirs)
	if err != nil {
		logger.FromContext(ctx).Debug("merge-tree failed", "error", err)
		return Report{}
	}
	if res.Stdout == "" {
		if !res.Ok() {
			logger.FromContext(ctx).Debug("merge-tree produced no report", "exit", res.ExitCode, "stderr", res.Stderr)
		}
		return Report{}
	}
	return s.parser.Parse(res.Stdout)
}

// parseUnmerged extracts paths from "git ls-files --unmerged" output.
// A conflicting path appears once per colliding stage; the result keeps
// each path once, preserving first-seen order.
func parseUnmerged(out string) []string {
	if out == "" {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		// Format: "<mode> <object> <stage>\t<path>"
		_, path, found := strings.Cut(line, "\t")
		if !found || path == "" || seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}
	return paths
}
