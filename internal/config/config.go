package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/normalizer"
)

// Config represents the main configuration structure
type Config struct {
	// Normalize holds syntax normalization configuration
	Normalize NormalizeConfig `mapstructure:"normalize" yaml:"normalize" json:"normalize"`

	// Batch holds manifest-driven comparison configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Scan holds directory scan configuration
	Scan ScanConfig `mapstructure:"scan" yaml:"scan" json:"scan"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Logging holds log configuration
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// NormalizeConfig holds configuration for the syntax normalizer
type NormalizeConfig struct {
	// Placeholder replaces variable, parameter and function names
	Placeholder string `mapstructure:"placeholder" yaml:"placeholder" json:"placeholder"`

	// LiteralPlaceholder replaces constants standing alone as statements
	LiteralPlaceholder string `mapstructure:"literal_placeholder" yaml:"literal_placeholder" json:"literal_placeholder"`

	// Parameters lists the parameter categories that are renamed:
	// positional_only, positional, keyword_only, var_positional, var_keyword
	Parameters []string `mapstructure:"parameters" yaml:"parameters" json:"parameters"`

	// AsyncFunctions applies the function rules to "async def" as well
	AsyncFunctions bool `mapstructure:"async_functions" yaml:"async_functions" json:"async_functions"`
}

// BatchConfig holds configuration for manifest-driven runs
type BatchConfig struct {
	// Workers bounds parallelism; 0 means one worker per CPU
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// ShowProgress shows a progress bar on interactive terminals
	ShowProgress bool `mapstructure:"show_progress" yaml:"show_progress" json:"show_progress"`
}

// ScanConfig holds configuration for all-pairs directory scans
type ScanConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`

	// MaxCoefficient is the largest coefficient still reported
	MaxCoefficient float64 `mapstructure:"max_coefficient" yaml:"max_coefficient" json:"max_coefficient"`

	// MaxResults caps the number of reported pairs; 0 means no limit
	MaxResults int `mapstructure:"max_results" yaml:"max_results" json:"max_results"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Precision is the number of decimal digits coefficients are rounded to
	Precision int `mapstructure:"precision" yaml:"precision" json:"precision"`

	// ShowDetails adds distance, mode and fallback reason to text output
	ShowDetails bool `mapstructure:"show_details" yaml:"show_details" json:"show_details"`
}

// LoggingConfig holds log configuration
type LoggingConfig struct {
	// Level is a zerolog level name: debug, info, warn, error, disabled
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Normalize: NormalizeConfig{
			Placeholder:        domain.DefaultPlaceholder,
			LiteralPlaceholder: domain.DefaultLiteralPlaceholder,
			Parameters:         append([]string(nil), domain.DefaultParameterCategories...),
			AsyncFunctions:     domain.DefaultAsyncFunctions,
		},
		Batch: BatchConfig{
			Workers:      domain.DefaultWorkers,
			ShowProgress: true,
		},
		Scan: ScanConfig{
			IncludePatterns: append([]string(nil), domain.DefaultIncludePatterns...),
			ExcludePatterns: append([]string(nil), domain.DefaultExcludePatterns...),
			Recursive:       true,
			MaxCoefficient:  domain.DefaultMaxCoefficient,
			MaxResults:      domain.DefaultMaxResults,
		},
		Output: OutputConfig{
			Format:      string(domain.OutputFormatText),
			Precision:   domain.DefaultPrecision,
			ShowDetails: false,
		},
		Logging: LoggingConfig{
			Level: domain.DefaultLogLevel,
		},
	}
}

// LoadConfig loads configuration from an explicit file of any format
// viper understands (toml, yaml, json). Keys missing from the file keep
// their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Load resolves the configuration for a run: an explicit file wins,
// otherwise .pysim.toml or pyproject.toml are discovered from targetDir
// upwards, otherwise defaults apply.
func Load(configPath, targetDir string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}

	config, _, err := NewTomlConfigLoader().LoadConfig(targetDir)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Normalize.Placeholder) == "" {
		return fmt.Errorf("normalize.placeholder cannot be empty")
	}
	if strings.TrimSpace(c.Normalize.LiteralPlaceholder) == "" {
		return fmt.Errorf("normalize.literal_placeholder cannot be empty")
	}
	for _, name := range c.Normalize.Parameters {
		if _, err := normalizer.ParseParameterCategory(name); err != nil {
			return fmt.Errorf("invalid normalize.parameters: %w", err)
		}
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}

	if len(c.Scan.IncludePatterns) == 0 {
		return fmt.Errorf("scan.include_patterns cannot be empty")
	}
	if c.Scan.MaxCoefficient < 0 {
		return fmt.Errorf("scan.max_coefficient must be >= 0, got %f", c.Scan.MaxCoefficient)
	}
	if c.Scan.MaxResults < 0 {
		return fmt.Errorf("scan.max_results must be >= 0, got %d", c.Scan.MaxResults)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}
	if c.Output.Precision < 0 || c.Output.Precision > domain.MaxPrecision {
		return fmt.Errorf("output.precision must be between 0 and %d, got %d", domain.MaxPrecision, c.Output.Precision)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level '%s': %w", c.Logging.Level, err)
	}

	return nil
}

// NormalizerOptions converts the normalize section into normalizer options
func (c *Config) NormalizerOptions() (normalizer.Options, error) {
	categories := make([]normalizer.ParameterCategory, 0, len(c.Normalize.Parameters))
	for _, name := range c.Normalize.Parameters {
		category, err := normalizer.ParseParameterCategory(name)
		if err != nil {
			return normalizer.Options{}, err
		}
		categories = append(categories, category)
	}

	return normalizer.Options{
		Placeholder:        c.Normalize.Placeholder,
		LiteralPlaceholder: c.Normalize.LiteralPlaceholder,
		Parameters:         categories,
		AsyncFunctions:     c.Normalize.AsyncFunctions,
	}, nil
}
