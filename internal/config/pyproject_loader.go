package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PyprojectToml represents the parts of pyproject.toml pysim reads
type PyprojectToml struct {
	Tool ToolConfig `toml:"tool"`
}

// ToolConfig represents the [tool] section
type ToolConfig struct {
	Pysim *PysimTomlConfig `toml:"pysim"`
}

// LoadPyprojectConfig loads configuration from the [tool.pysim] table of
// the nearest pyproject.toml. Defaults are returned, with an empty path,
// when there is no pyproject.toml or it has no [tool.pysim] table.
func LoadPyprojectConfig(startDir string) (*Config, string, error) {
	// Find pyproject.toml file (walk up directory tree)
	configPath, err := findPyprojectToml(startDir)
	if err != nil {
		return DefaultConfig(), "", nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	var pyproject PyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if pyproject.Tool.Pysim == nil {
		return config, "", nil
	}

	NewTomlConfigLoader().mergePysimTomlConfig(config, pyproject.Tool.Pysim)
	return config, configPath, nil
}

// findPyprojectToml walks up the directory tree to find pyproject.toml
func findPyprojectToml(startDir string) (string, error) {
	return findUpwards(startDir, "pyproject.toml")
}
