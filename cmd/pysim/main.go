package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/logger"
	"github.com/ludo-technologies/pysim/internal/version"
)

var rootCmd = NewRootCmd()

// NewRootCmd builds the pysim command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pysim",
		Short: "Python source similarity checker",
		Long: `pysim measures how alike Python source files are.

Both files are parsed and normalized first: variable, function and
parameter names become a placeholder, docstrings and standalone
constants are blanked, decorators and return annotations are dropped.
The normalized texts are then compared with Levenshtein distance.
Files that cannot be parsed are compared as raw text.

A coefficient of 0 means the files are identical after normalization;
larger values mean more edits are needed to turn one into the other.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := domain.DefaultLogLevel
			if isVerbose(cmd) {
				level = "debug"
			}
			logger.Setup(level, cmd.ErrOrStderr())
		},
	}

	// Global flags
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(NewCompareCmd())
	root.AddCommand(NewBatchCmd())
	root.AddCommand(NewScanCmd())
	root.AddCommand(NewNormalizeCmd())
	root.AddCommand(NewInitCmd())
	root.AddCommand(NewVersionCmd())

	return root
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
