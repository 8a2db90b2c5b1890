package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/config"
	"github.com/ludo-technologies/pysim/service"
)

// outputFlags are the output options shared by compare, batch and scan
type outputFlags struct {
	json        bool
	csv         bool
	yaml        bool
	precision   int
	showDetails bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&o.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&o.yaml, "yaml", false, "Output results as YAML")
	cmd.Flags().IntVarP(&o.precision, "precision", "p", domain.DefaultPrecision, "Decimal digits coefficients are rounded to")
	cmd.Flags().BoolVarP(&o.showDetails, "details", "d", false, "Show distance, mode and fallback reason")
}

// apply merges explicitly set flags over the output section of cfg and
// returns the resolved format
func (o *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) (domain.OutputFormat, error) {
	flags := GetExplicitFlags(cmd)
	cfg.Output.Precision = config.Merge(cfg.Output.Precision, o.precision, "precision", flags)
	cfg.Output.ShowDetails = config.Merge(cfg.Output.ShowDetails, o.showDetails, "details", flags)

	if cfg.Output.Precision < 0 || cfg.Output.Precision > domain.MaxPrecision {
		return "", domain.NewValidationError("precision must be between 0 and 15")
	}

	format, _, err := service.NewOutputFormatResolver().Determine(o.json, o.csv, o.yaml, cfg.Output.Format)
	return format, err
}

// newPairService builds the pair comparer from the normalize section
func newPairService(cfg *config.Config) (*service.PairService, error) {
	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return nil, domain.NewConfigError("invalid normalize configuration", err)
	}
	return service.NewPairService(service.NewFileReader(), opts), nil
}

// newFormatter builds the output formatter for cfg
func newFormatter(cfg *config.Config) *service.OutputFormatterImpl {
	return &service.OutputFormatterImpl{ShowDetails: cfg.Output.ShowDetails}
}

// newProgress returns a progress bar on stderr when enabled
func newProgress(enabled bool, description string) domain.ProgressManager {
	if !enabled {
		return nil
	}
	return service.NewProgressManager(description)
}
