package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated configuration file discovered by walking
// up from the target directory
const ConfigFileName = ".pysim.toml"

// PysimTomlConfig represents the structure of .pysim.toml and of the
// [tool.pysim] table in pyproject.toml. Pointers detect unset keys.
type PysimTomlConfig struct {
	Normalize NormalizeTomlConfig `toml:"normalize"`
	Batch     BatchTomlConfig     `toml:"batch"`
	Scan      ScanTomlConfig      `toml:"scan"`
	Output    OutputTomlConfig    `toml:"output"`
	Logging   LoggingTomlConfig   `toml:"logging"`
}

type NormalizeTomlConfig struct {
	Placeholder        *string  `toml:"placeholder"`
	LiteralPlaceholder *string  `toml:"literal_placeholder"`
	Parameters         []string `toml:"parameters"`
	AsyncFunctions     *bool    `toml:"async_functions"`
}

type BatchTomlConfig struct {
	Workers      *int  `toml:"workers"`
	ShowProgress *bool `toml:"show_progress"`
}

type ScanTomlConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"`
	MaxCoefficient  *float64 `toml:"max_coefficient"`
	MaxResults      *int     `toml:"max_results"`
}

type OutputTomlConfig struct {
	Format      *string `toml:"format"`
	Precision   *int    `toml:"precision"`
	ShowDetails *bool   `toml:"show_details"`
}

type LoggingTomlConfig struct {
	Level *string `toml:"level"`
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration from TOML files with ruff-like priority:
// 1. .pysim.toml (dedicated config file)
// 2. pyproject.toml (with [tool.pysim] section)
// 3. defaults
//
// It returns the path of the file used, or "" when defaults apply.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, string, error) {
	startDir, err := l.resolveStartDir(startDir)
	if err != nil {
		return nil, "", err
	}

	// Try .pysim.toml first (highest priority)
	if path, err := l.findPysimToml(startDir); err == nil {
		config, err := l.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return config, path, nil
	}

	// Try pyproject.toml as fallback
	config, path, err := LoadPyprojectConfig(startDir)
	if err != nil {
		return nil, "", err
	}
	return config, path, nil
}

// LoadFile loads a single .pysim.toml file on top of the defaults
func (l *TomlConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tomlConfig PysimTomlConfig
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config := DefaultConfig()
	l.mergePysimTomlConfig(config, &tomlConfig)
	return config, nil
}

// resolveStartDir turns a file or relative path into an absolute directory
func (l *TomlConfigLoader) resolveStartDir(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

// findPysimToml walks up the directory tree to find .pysim.toml
func (l *TomlConfigLoader) findPysimToml(startDir string) (string, error) {
	return findUpwards(startDir, ConfigFileName)
}

// mergePysimTomlConfig overrides defaults with every key set in the file
func (l *TomlConfigLoader) mergePysimTomlConfig(defaults *Config, t *PysimTomlConfig) {
	// Normalize
	if t.Normalize.Placeholder != nil {
		defaults.Normalize.Placeholder = *t.Normalize.Placeholder
	}
	if t.Normalize.LiteralPlaceholder != nil {
		defaults.Normalize.LiteralPlaceholder = *t.Normalize.LiteralPlaceholder
	}
	if t.Normalize.Parameters != nil {
		defaults.Normalize.Parameters = t.Normalize.Parameters
	}
	if t.Normalize.AsyncFunctions != nil {
		defaults.Normalize.AsyncFunctions = *t.Normalize.AsyncFunctions
	}

	// Batch
	if t.Batch.Workers != nil {
		defaults.Batch.Workers = *t.Batch.Workers
	}
	if t.Batch.ShowProgress != nil {
		defaults.Batch.ShowProgress = *t.Batch.ShowProgress
	}

	// Scan
	if len(t.Scan.IncludePatterns) > 0 {
		defaults.Scan.IncludePatterns = t.Scan.IncludePatterns
	}
	if t.Scan.ExcludePatterns != nil {
		defaults.Scan.ExcludePatterns = t.Scan.ExcludePatterns
	}
	if t.Scan.Recursive != nil {
		defaults.Scan.Recursive = *t.Scan.Recursive
	}
	if t.Scan.MaxCoefficient != nil {
		defaults.Scan.MaxCoefficient = *t.Scan.MaxCoefficient
	}
	if t.Scan.MaxResults != nil {
		defaults.Scan.MaxResults = *t.Scan.MaxResults
	}

	// Output
	if t.Output.Format != nil {
		defaults.Output.Format = *t.Output.Format
	}
	if t.Output.Precision != nil {
		defaults.Output.Precision = *t.Output.Precision
	}
	if t.Output.ShowDetails != nil {
		defaults.Output.ShowDetails = *t.Output.ShowDetails
	}

	// Logging
	if t.Logging.Level != nil {
		defaults.Logging.Level = *t.Logging.Level
	}
}

// GetSupportedConfigFiles returns the discovered config file names in
// priority order
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{ConfigFileName, "pyproject.toml"}
}

// findUpwards returns the first dir/name found walking up from startDir
func findUpwards(startDir, name string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
