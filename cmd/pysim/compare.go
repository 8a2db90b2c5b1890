package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pysim/app"
	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/service"
)

// CompareCommand compares one pair of files
type CompareCommand struct {
	output     outputFlags
	configFile string
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{}
}

// CreateCobraCommand creates the cobra command for a single comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FILE1 FILE2",
		Short: "Compare two Python files",
		Long: `Print the similarity coefficient of two Python files.

The coefficient is the edit distance between the normalized sources
divided by max(|len1 - len2|, len2). It is 0 for sources that are
identical after normalization. Argument order matters.

Examples:
  pysim compare a.py b.py
  pysim compare a.py b.py --details
  pysim compare a.py b.py --json`,
		Args: cobra.ExactArgs(2),
		RunE: c.runCompare,
	}

	c.output.register(cmd)
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, c.configFile, firstDir(args))
	if err != nil {
		return err
	}

	format, err := c.output.apply(cmd, cfg)
	if err != nil {
		return err
	}

	pairs, err := newPairService(cfg)
	if err != nil {
		return err
	}

	uc, err := app.NewBatchUseCaseBuilder().
		WithComparer(pairs).
		WithFormatter(newFormatter(cfg)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return err
	}

	return uc.Execute(cmd.Context(), domain.BatchRequest{
		Pairs:        []domain.FilePair{{First: args[0], Second: args[1]}},
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		Precision:    cfg.Output.Precision,
		ShowDetails:  cfg.Output.ShowDetails,
		Workers:      1,
		ConfigPath:   c.configFile,
	})
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
