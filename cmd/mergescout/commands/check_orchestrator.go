package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/irahardianto/mergescout/internal/engine/config"
	"github.com/irahardianto/mergescout/internal/engine/detect"
	"github.com/irahardianto/mergescout/internal/engine/formatter"
	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/engine/llm"
	"github.com/irahardianto/mergescout/internal/engine/merge"
	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// ErrConflictsFound signals that the check completed and predicted
// conflicts. It maps to exit code 1, distinct from check failures.
var ErrConflictsFound = errors.New("merge conflicts predicted")

// CheckOpts holds per-invocation options for the check.
type CheckOpts struct {
	OtherRef string
	Diff     bool
	JSON     bool
	Sarif    bool
	Fetch    bool
	Explain  bool
	Verbose  bool
	Color    bool
}

// Check orchestrates one conflict check with injected dependencies.
// The struct enables testing the orchestration logic without real
// infrastructure.
type Check struct {
	// Runner executes git commands in the working directory.
	Runner git.Runner

	// LoadConfig loads the project-level .mergescout/config.yaml.
	LoadConfig func(ctx context.Context, path string) (*config.ProjectConfig, error)

	// Explainer produces resolution hints. Nil disables hints even
	// when requested.
	Explainer llm.Client

	// Stdout is the output writer for the formatted result.
	Stdout io.Writer
}

// Execute runs the full check orchestration.
func (c *Check) Execute(ctx context.Context, opts CheckOpts) error {
	log := logger.FromContext(ctx)

	cfg, err := c.LoadConfig(ctx, config.DefaultPath)
	if err != nil {
		return err
	}

	parser := &merge.ReportParser{
		MetadataWindow: cfg.Scan.MetadataWindow,
		MarkerWindow:   cfg.Scan.MarkerWindow,
	}

	otherRef := opts.OtherRef
	if otherRef == "" {
		otherRef = cfg.OtherRef
	}

	pipeline := detect.NewPipeline(c.Runner, parser)
	result, err := pipeline.Detect(ctx, detect.Options{
		OtherRef:  otherRef,
		WantDiffs: opts.Diff || opts.Explain,
		Fetch:     opts.Fetch || cfg.Fetch,
	})
	if err != nil {
		return err
	}

	if opts.Explain && result.Conflicts && c.Explainer != nil {
		c.explain(ctx, result)
	}

	var f formatter.Formatter
	switch {
	case opts.Sarif:
		f = formatter.NewSarifFormatter()
	case opts.JSON:
		f = formatter.NewJSONFormatter()
	default:
		f = formatter.NewCLIFormatter(opts.Color, opts.Verbose || opts.Diff)
	}

	if _, err := fmt.Fprintln(c.Stdout, f.Format(result)); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	if result.Conflicts {
		return ErrConflictsFound
	}
	log.Info("no conflicts predicted", "other", result.OtherRef)
	return nil
}

// explain asks the model for per-path resolution hints and attaches the
// validated ones to the result. Hints are best effort; a failure is
// logged and the check proceeds without them.
func (c *Check) explain(ctx context.Context, result *detect.Result) {
	log := logger.FromContext(ctx)

	prompt := llm.BuildPrompt(result.CurrentRef, result.OtherRef, result.ConflictedFiles, result.Files)
	hints, err := c.Explainer.Explain(ctx, prompt)
	if err != nil {
		log.Warn("resolution hints unavailable", "error", err)
		return
	}

	for _, h := range llm.FilterHints(hints, result.ConflictedFiles) {
		rec, ok := result.Files[h.Path]
		if !ok {
			continue
		}
		rec.Hint = h.Hint
		result.Files[h.Path] = rec
	}
}
