package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irahardianto/mergescout/internal/engine/config"
	"github.com/irahardianto/mergescout/internal/engine/git"
	"github.com/irahardianto/mergescout/internal/engine/llm"
)

var (
	flagDiff    bool
	flagSarif   bool
	flagFetch   bool
	flagExplain bool
)

var checkCmd = &cobra.Command{
	Use:   "check [other-ref]",
	Short: "Check whether merging another ref would conflict",
	Long: `Simulate merging the given ref into the current branch and report the
predicted conflicts. Without an argument the repository's default branch
is used. Exit 0 when the merge is clean, 1 when conflicts are predicted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runCheck(cmd, args)
		if errors.Is(err, ErrConflictsFound) {
			os.Exit(1)
		}
		if err != nil {
			// The root command silences cobra's own error printing, so
			// render the failure here before the exit-2 path in main.
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	},
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	globalCfg, err := config.LoadGlobalConfig(ctx)
	if err != nil {
		return err
	}

	otherRef := ""
	if len(args) == 1 {
		otherRef = args[0]
	}

	var explainer llm.Client
	if flagExplain {
		if globalCfg.GeminiAPIKey.IsEmpty() {
			return errors.New("--explain requires a Gemini API key (set MERGESCOUT_GEMINI_API_KEY or gemini_api_key in ~/.config/mergescout/config.yaml)")
		}
		explainer = llm.NewGeminiClient(string(globalCfg.GeminiAPIKey), "", nil)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	check := &Check{
		Runner:     git.NewExecRunner(cwd),
		LoadConfig: config.Load,
		Explainer:  explainer,
		Stdout:     os.Stdout,
	}

	return check.Execute(ctx, CheckOpts{
		OtherRef: otherRef,
		Diff:     flagDiff,
		JSON:     flagJSON,
		Sarif:    flagSarif,
		Fetch:    flagFetch,
		Explain:  flagExplain,
		Verbose:  flagVerbose || globalCfg.OutputVerbose,
		Color:    !flagNoColor && globalCfg.OutputColor,
	})
}

func init() {
	checkCmd.Flags().BoolVar(&flagDiff, "diff", false, "Classify each conflict and include diffs")
	checkCmd.Flags().BoolVar(&flagSarif, "sarif", false, "Output the result as SARIF to stdout")
	checkCmd.Flags().BoolVar(&flagFetch, "fetch", false, "Fetch all remotes before checking")
	checkCmd.Flags().BoolVar(&flagExplain, "explain", false, "Ask the configured model for resolution hints")
	rootCmd.AddCommand(checkCmd)
}
