package mcp

import (
	"github.com/ludo-technologies/pysim/app"
	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/config"
	"github.com/ludo-technologies/pysim/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set. A nil config is resolved
// per call from configPath or by discovery from the target path.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot, nil when resolved per call.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// ResolveConfig returns the fixed configuration if one was given, otherwise
// loads it for targetDir. The result is a copy callers may modify.
func (d *Dependencies) ResolveConfig(targetDir string) (*config.Config, error) {
	if d.config != nil {
		cfg := *d.config
		return &cfg, nil
	}
	if targetDir == "" {
		targetDir = "."
	}
	cfg, err := config.Load(d.configPath, targetDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// BuildPairService assembles the pair comparer for cfg.
func (d *Dependencies) BuildPairService(cfg *config.Config) (*service.PairService, error) {
	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return nil, domain.NewConfigError("invalid normalize configuration", err)
	}
	return service.NewPairService(d.fileReader, opts), nil
}

// BuildBatchUseCase assembles a fresh BatchUseCase for cfg.
func (d *Dependencies) BuildBatchUseCase(cfg *config.Config) (*app.BatchUseCase, error) {
	pairs, err := d.BuildPairService(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewBatchUseCaseBuilder().
		WithComparer(pairs).
		WithFormatter(service.NewOutputFormatter()).
		Build()
}

// BuildScanUseCase assembles a fresh ScanUseCase for cfg.
func (d *Dependencies) BuildScanUseCase(cfg *config.Config) (*app.ScanUseCase, error) {
	pairs, err := d.BuildPairService(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewScanUseCaseBuilder().
		WithFileReader(d.fileReader).
		WithComparer(pairs).
		WithFormatter(service.NewOutputFormatter()).
		Build()
}
