package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestLoadFromPysimToml(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `[normalize]
placeholder = "_"
parameters = ["positional", "keyword_only"]
async_functions = false

[batch]
workers = 4

[scan]
exclude_patterns = ["build/**"]
max_coefficient = 0.1

[output]
precision = 5
format = "json"

[logging]
level = "debug"
`
	writeFile(t, filepath.Join(tempDir, ConfigFileName), configContent)

	loader := NewTomlConfigLoader()
	config, path, err := loader.LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if path != filepath.Join(tempDir, ConfigFileName) {
		t.Errorf("Expected config path %s, got %s", filepath.Join(tempDir, ConfigFileName), path)
	}
	if config.Normalize.Placeholder != "_" {
		t.Errorf("Expected placeholder _, got %q", config.Normalize.Placeholder)
	}
	if len(config.Normalize.Parameters) != 2 || config.Normalize.Parameters[1] != "keyword_only" {
		t.Errorf("Unexpected parameters %v", config.Normalize.Parameters)
	}
	if config.Normalize.AsyncFunctions {
		t.Error("Expected async_functions false")
	}
	if config.Batch.Workers != 4 {
		t.Errorf("Expected workers 4, got %d", config.Batch.Workers)
	}
	if len(config.Scan.ExcludePatterns) != 1 || config.Scan.ExcludePatterns[0] != "build/**" {
		t.Errorf("Expected exclude patterns replaced, got %v", config.Scan.ExcludePatterns)
	}
	if config.Scan.MaxCoefficient != 0.1 {
		t.Errorf("Expected max_coefficient 0.1, got %f", config.Scan.MaxCoefficient)
	}
	if config.Output.Precision != 5 || config.Output.Format != "json" {
		t.Errorf("Unexpected output section %+v", config.Output)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", config.Logging.Level)
	}

	// Unset keys keep their defaults
	defaults := DefaultConfig()
	if config.Normalize.LiteralPlaceholder != defaults.Normalize.LiteralPlaceholder {
		t.Errorf("literal_placeholder should keep its default, got %q", config.Normalize.LiteralPlaceholder)
	}
	if config.Batch.ShowProgress != defaults.Batch.ShowProgress {
		t.Error("show_progress should keep its default")
	}
	if config.Scan.MaxResults != defaults.Scan.MaxResults {
		t.Errorf("max_results should keep its default, got %d", config.Scan.MaxResults)
	}
}

func TestLoadConfigWalksUp(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[output]\nprecision = 2\n")

	nested := filepath.Join(tempDir, "src", "pkg")
	writeFile(t, filepath.Join(nested, "mod.py"), "x = 1\n")

	// Start from a file inside a nested directory
	config, path, err := NewTomlConfigLoader().LoadConfig(filepath.Join(nested, "mod.py"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if path != filepath.Join(tempDir, ConfigFileName) {
		t.Errorf("Expected config from parent, got %q", path)
	}
	if config.Output.Precision != 2 {
		t.Errorf("Expected precision 2, got %d", config.Output.Precision)
	}
}

func TestPysimTomlTakesPriority(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[batch]\nworkers = 2\n")
	writeFile(t, filepath.Join(tempDir, "pyproject.toml"), "[tool.pysim.batch]\nworkers = 8\n")

	config, _, err := NewTomlConfigLoader().LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Batch.Workers != 2 {
		t.Errorf("Expected .pysim.toml to win with workers 2, got %d", config.Batch.Workers)
	}
}

func TestLoadInvalidPysimToml(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[output\nprecision = ")

	if _, _, err := NewTomlConfigLoader().LoadConfig(tempDir); err == nil {
		t.Error("Expected error for malformed .pysim.toml")
	}
}

func TestGetSupportedConfigFiles(t *testing.T) {
	files := NewTomlConfigLoader().GetSupportedConfigFiles()
	if len(files) != 2 || files[0] != ConfigFileName {
		t.Errorf("Unexpected config files %v", files)
	}
}
