package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPyprojectConfig(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "pyproject.toml"), `[project]
name = "demo"

[tool.pysim.normalize]
parameters = ["positional", "var_positional"]

[tool.pysim.scan]
max_results = 10
recursive = false
`)

	config, path, err := LoadPyprojectConfig(tempDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "pyproject.toml"), path)
	assert.Equal(t, []string{"positional", "var_positional"}, config.Normalize.Parameters)
	assert.Equal(t, 10, config.Scan.MaxResults)
	assert.False(t, config.Scan.Recursive)
	assert.Equal(t, DefaultConfig().Output, config.Output)
}

func TestLoadPyprojectWithoutToolSection(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "pyproject.toml"), "[tool.black]\nline-length = 88\n")

	config, path, err := LoadPyprojectConfig(tempDir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadPyprojectMalformed(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "pyproject.toml"), "[tool.pysim\n")

	_, _, err := LoadPyprojectConfig(tempDir)
	assert.Error(t, err)
}

func TestTomlLoaderFallsBackToPyproject(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "pyproject.toml"), "[tool.pysim.output]\nformat = 'csv'\n")

	config, path, err := NewTomlConfigLoader().LoadConfig(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "csv", config.Output.Format)
	assert.Equal(t, filepath.Join(tempDir, "pyproject.toml"), path)
}
