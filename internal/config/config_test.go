package config

import (
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pysim/internal/normalizer"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "a", cfg.Normalize.Placeholder)
	assert.Equal(t, `""`, cfg.Normalize.LiteralPlaceholder)
	assert.Equal(t, []string{"positional"}, cfg.Normalize.Parameters)
	assert.True(t, cfg.Normalize.AsyncFunctions)
	assert.Equal(t, 3, cfg.Output.Precision)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestDefaultConfigSlicesAreIndependent(t *testing.T) {
	first := DefaultConfig()
	first.Normalize.Parameters[0] = "var_keyword"
	first.Scan.IncludePatterns[0] = "*.txt"

	second := DefaultConfig()
	assert.Equal(t, "positional", second.Normalize.Parameters[0])
	assert.Equal(t, "**/*.py", second.Scan.IncludePatterns[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty placeholder", func(c *Config) { c.Normalize.Placeholder = " " }},
		{"empty literal placeholder", func(c *Config) { c.Normalize.LiteralPlaceholder = "" }},
		{"unknown parameter category", func(c *Config) { c.Normalize.Parameters = []string{"varargs"} }},
		{"negative workers", func(c *Config) { c.Batch.Workers = -1 }},
		{"no include patterns", func(c *Config) { c.Scan.IncludePatterns = nil }},
		{"negative max coefficient", func(c *Config) { c.Scan.MaxCoefficient = -0.5 }},
		{"negative max results", func(c *Config) { c.Scan.MaxResults = -1 }},
		{"unknown format", func(c *Config) { c.Output.Format = "html" }},
		{"precision too large", func(c *Config) { c.Output.Precision = 16 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNormalizerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Normalize.Parameters = []string{"positional_only", "var_keyword"}
	cfg.Normalize.AsyncFunctions = false

	opts, err := cfg.NormalizerOptions()
	require.NoError(t, err)
	assert.Equal(t, []normalizer.ParameterCategory{normalizer.PositionalOnly, normalizer.VarKeyword}, opts.Parameters)
	assert.False(t, opts.AsyncFunctions)
	assert.Equal(t, "a", opts.Placeholder)

	cfg.Normalize.Parameters = []string{"bogus"}
	_, err = cfg.NormalizerOptions()
	assert.Error(t, err)
}

func TestLoadConfigWithViper(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(tempDir, "pysim.yaml")
		writeFile(t, path, "output:\n  format: yaml\n  precision: 4\nbatch:\n  workers: 3\n")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Output.Format)
		assert.Equal(t, 4, cfg.Output.Precision)
		assert.Equal(t, 3, cfg.Batch.Workers)
		assert.Equal(t, DefaultConfig().Normalize, cfg.Normalize)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(tempDir, "pysim.json")
		writeFile(t, path, `{"normalize": {"parameters": ["keyword_only"]}}`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"keyword_only"}, cfg.Normalize.Parameters)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad.yaml")
		writeFile(t, path, "output:\n  precision: 99\n")

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tempDir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("no path", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[output]\nprecision = 6\n")

	explicit := filepath.Join(tempDir, "explicit.toml")
	writeFile(t, explicit, "[output]\nprecision = 1\n")

	discovered, err := Load("", tempDir)
	require.NoError(t, err)
	assert.Equal(t, 6, discovered.Output.Precision)

	chosen, err := Load(explicit, tempDir)
	require.NoError(t, err)
	assert.Equal(t, 1, chosen.Output.Precision)

	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[logging]\nlevel = 'chatty'\n")
	_, err = Load("", tempDir)
	assert.Error(t, err)
}

func TestGenerateDefaultConfigTOML(t *testing.T) {
	rendered, err := GenerateDefaultConfigTOML()
	require.NoError(t, err)
	assert.Contains(t, rendered, "[normalize]")
	assert.Contains(t, rendered, "parameters = ['positional']")

	// the rendered file parses back to the defaults
	var parsed PysimTomlConfig
	require.NoError(t, toml.Unmarshal([]byte(rendered), &parsed))

	cfg := DefaultConfig()
	NewTomlConfigLoader().mergePysimTomlConfig(cfg, &parsed)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestTomlString(t *testing.T) {
	assert.Equal(t, `'a'`, tomlString("a"))
	assert.Equal(t, `'""'`, tomlString(`""`))
	assert.Equal(t, `"it's"`, tomlString("it's"))
}
