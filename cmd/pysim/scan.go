package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pysim/app"
	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/config"
	"github.com/ludo-technologies/pysim/service"
)

// ScanCommand compares every pair of Python files under the given paths
type ScanCommand struct {
	recursive       bool
	includePatterns []string
	excludePatterns []string
	maxCoefficient  float64
	maxResults      int
	outputPath      string
	output          outputFlags
	workers         int
	noProgress      bool
	configFile      string
}

// NewScanCommand creates a new scan command
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// CreateCobraCommand creates the cobra command for all-pairs scans
func (s *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Find similar pairs among Python files",
		Long: `Compare every pair of Python files found under the given paths and
report the pairs whose coefficient is at most --max-coefficient, most
similar first. Each pair is compared in path order.

Examples:
  pysim scan submissions/
  pysim scan src/ tests/ --max-coefficient 0.1 --max-results 20
  pysim scan . --exclude "**/migrations/**" --json`,
		RunE: s.runScan,
	}

	cmd.Flags().BoolVarP(&s.recursive, "recursive", "r", true, "Recurse into subdirectories")
	cmd.Flags().StringSliceVar(&s.includePatterns, "include", domain.DefaultIncludePatterns, "Include file patterns (doublestar)")
	cmd.Flags().StringSliceVar(&s.excludePatterns, "exclude", domain.DefaultExcludePatterns, "Exclude file patterns (doublestar)")
	cmd.Flags().Float64VarP(&s.maxCoefficient, "max-coefficient", "t", domain.DefaultMaxCoefficient, "Largest coefficient reported")
	cmd.Flags().IntVarP(&s.maxResults, "max-results", "n", domain.DefaultMaxResults, "Maximum number of pairs reported (0 = all)")
	cmd.Flags().StringVarP(&s.outputPath, "output", "o", "", "Output file (default: stdout)")
	s.output.register(cmd)
	cmd.Flags().IntVarP(&s.workers, "workers", "w", domain.DefaultWorkers, "Parallel workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&s.noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().StringVarP(&s.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (s *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := loadConfig(cmd, s.configFile, firstDir(paths))
	if err != nil {
		return err
	}

	flags := GetExplicitFlags(cmd)
	cfg.Scan.Recursive = config.Merge(cfg.Scan.Recursive, s.recursive, "recursive", flags)
	cfg.Scan.IncludePatterns = config.MergeStringSlice(cfg.Scan.IncludePatterns, s.includePatterns, "include", flags)
	cfg.Scan.ExcludePatterns = config.Merge(cfg.Scan.ExcludePatterns, s.excludePatterns, "exclude", flags)
	cfg.Scan.MaxCoefficient = config.Merge(cfg.Scan.MaxCoefficient, s.maxCoefficient, "max-coefficient", flags)
	cfg.Scan.MaxResults = config.Merge(cfg.Scan.MaxResults, s.maxResults, "max-results", flags)
	cfg.Batch.Workers = config.Merge(cfg.Batch.Workers, s.workers, "workers", flags)
	cfg.Batch.ShowProgress = config.Merge(cfg.Batch.ShowProgress, !s.noProgress, "no-progress", flags)

	format, err := s.output.apply(cmd, cfg)
	if err != nil {
		return err
	}

	pairs, err := newPairService(cfg)
	if err != nil {
		return err
	}

	progress := newProgress(cfg.Batch.ShowProgress, "Scanning")
	if progress != nil {
		defer progress.Close()
	}

	uc, err := app.NewScanUseCaseBuilder().
		WithFileReader(service.NewFileReader()).
		WithComparer(pairs).
		WithFormatter(newFormatter(cfg)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithProgress(progress).
		Build()
	if err != nil {
		return err
	}

	return uc.Execute(cmd.Context(), domain.ScanRequest{
		Paths:           paths,
		Recursive:       cfg.Scan.Recursive,
		IncludePatterns: cfg.Scan.IncludePatterns,
		ExcludePatterns: cfg.Scan.ExcludePatterns,
		MaxCoefficient:  cfg.Scan.MaxCoefficient,
		MaxResults:      cfg.Scan.MaxResults,
		OutputFormat:    format,
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      s.outputPath,
		Precision:       cfg.Output.Precision,
		ShowDetails:     cfg.Output.ShowDetails,
		Workers:         cfg.Batch.Workers,
		ShowProgress:    cfg.Batch.ShowProgress,
		ConfigPath:      s.configFile,
	})
}

// NewScanCmd creates and returns the scan cobra command
func NewScanCmd() *cobra.Command {
	return NewScanCommand().CreateCobraCommand()
}
