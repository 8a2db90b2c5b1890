package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pysim/app"
	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/config"
	"github.com/ludo-technologies/pysim/service"
)

// BatchCommand compares every pair listed in a manifest
type BatchCommand struct {
	input      string
	outputPath string
	output     outputFlags
	workers    int
	noProgress bool
	configFile string
}

// NewBatchCommand creates a new batch command
func NewBatchCommand() *BatchCommand {
	return &BatchCommand{}
}

// CreateCobraCommand creates the cobra command for manifest-driven runs
func (b *BatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compare the file pairs listed in a manifest",
		Long: `Compare the file pairs listed in a manifest.

The manifest is a whitespace-separated list of paths read two at a time:
"a.py b.py c.py a.py" compares a.py with b.py, then c.py with a.py.
One rounded coefficient is written per pair, in manifest order.

Without --input and --output the manifest path and the output path are
read from standard input, one per line.

Examples:
  pysim batch --input pairs.txt --output scores.txt
  pysim batch --input pairs.txt --json
  printf 'pairs.txt\nscores.txt\n' | pysim batch`,
		Args: cobra.NoArgs,
		RunE: b.runBatch,
	}

	cmd.Flags().StringVarP(&b.input, "input", "i", "", "Manifest file listing the pairs")
	cmd.Flags().StringVarP(&b.outputPath, "output", "o", "", "Output file (default: stdout)")
	b.output.register(cmd)
	cmd.Flags().IntVarP(&b.workers, "workers", "w", domain.DefaultWorkers, "Parallel workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&b.noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().StringVarP(&b.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (b *BatchCommand) runBatch(cmd *cobra.Command, args []string) error {
	flags := GetExplicitFlags(cmd)

	input, outputPath := b.input, b.outputPath
	if !flags["input"] && !flags["output"] {
		var err error
		input, outputPath, err = b.promptPaths(cmd)
		if err != nil {
			return err
		}
	}
	if input == "" {
		return domain.NewValidationError("manifest path cannot be empty")
	}

	cfg, err := loadConfig(cmd, b.configFile, firstDir([]string{input}))
	if err != nil {
		return err
	}
	cfg.Batch.Workers = config.Merge(cfg.Batch.Workers, b.workers, "workers", flags)
	cfg.Batch.ShowProgress = config.Merge(cfg.Batch.ShowProgress, !b.noProgress, "no-progress", flags)

	format, err := b.output.apply(cmd, cfg)
	if err != nil {
		return err
	}

	pairs, err := newPairService(cfg)
	if err != nil {
		return err
	}

	progress := newProgress(cfg.Batch.ShowProgress, "Comparing")
	if progress != nil {
		defer progress.Close()
	}

	uc, err := app.NewBatchUseCaseBuilder().
		WithComparer(pairs).
		WithManifestReader(service.NewManifestReader()).
		WithFormatter(newFormatter(cfg)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithProgress(progress).
		Build()
	if err != nil {
		return err
	}

	return uc.Execute(cmd.Context(), domain.BatchRequest{
		ManifestPath: input,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   outputPath,
		Precision:    cfg.Output.Precision,
		ShowDetails:  cfg.Output.ShowDetails,
		Workers:      cfg.Batch.Workers,
		ShowProgress: cfg.Batch.ShowProgress,
		ConfigPath:   b.configFile,
	})
}

// promptPaths reads the manifest path and the output path from stdin, one
// per line. Prompts are shown only on a terminal.
func (b *BatchCommand) promptPaths(cmd *cobra.Command) (string, string, error) {
	interactive := isInteractiveInput(cmd)
	scanner := bufio.NewScanner(cmd.InOrStdin())

	read := func(prompt string) (string, error) {
		if interactive {
			fmt.Fprint(cmd.ErrOrStderr(), prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", domain.NewInvalidInputError("failed to read standard input", err)
			}
			return "", domain.NewValidationError("expected the manifest path and the output path on standard input")
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	input, err := read("Manifest file: ")
	if err != nil {
		return "", "", err
	}
	output, err := read("Output file: ")
	if err != nil {
		return "", "", err
	}
	if output == "" {
		return "", "", domain.NewValidationError("output path cannot be empty")
	}
	return input, output, nil
}

// NewBatchCmd creates and returns the batch cobra command
func NewBatchCmd() *cobra.Command {
	return NewBatchCommand().CreateCobraCommand()
}
