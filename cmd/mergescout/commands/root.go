// Package commands implements the CLI commands for mergescout.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// Global flag values accessible to all commands.
var (
	flagJSON    bool
	flagVerbose bool
	flagNoColor bool
)

// rootCmd is the base command for the mergescout CLI.
var rootCmd = &cobra.Command{
	Use:   "mergescout",
	Short: "Predict git merge conflicts without merging",
	Long: `Mergescout predicts whether merging another branch into the current one
would conflict, without touching the working tree, the real index, or any
branch. It simulates the merge in a throwaway index and reports the
conflicting files, classified by kind (content, rename, delete).

Exit codes: 0 when the merge is clean, 1 when conflicts are predicted,
2 when the check itself failed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l := logger.New(flagVerbose, flagJSON)
		ctx := logger.WithContext(cmd.Context(), l)
		cmd.SetContext(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output the result as JSON to stdout")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Include diffs and debug logging in output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

// Execute runs the root command. Returns an error if the command fails.
func Execute() error {
	return rootCmd.Execute()
}
