package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template.
// All values are sourced from DefaultConfig to ensure a single source of truth.
type DefaultConfigValues struct {
	// Normalize
	Placeholder        string
	LiteralPlaceholder string
	Parameters         []string
	AsyncFunctions     bool

	// Batch
	Workers      int
	ShowProgress bool

	// Scan
	IncludePatterns []string
	ExcludePatterns []string
	Recursive       bool
	MaxCoefficient  string
	MaxResults      int

	// Output
	Format      string
	Precision   int
	ShowDetails bool

	// Logging
	LogLevel string
}

func newDefaultConfigValues() DefaultConfigValues {
	cfg := DefaultConfig()
	return DefaultConfigValues{
		Placeholder:        cfg.Normalize.Placeholder,
		LiteralPlaceholder: cfg.Normalize.LiteralPlaceholder,
		Parameters:         cfg.Normalize.Parameters,
		AsyncFunctions:     cfg.Normalize.AsyncFunctions,

		Workers:      cfg.Batch.Workers,
		ShowProgress: cfg.Batch.ShowProgress,

		IncludePatterns: cfg.Scan.IncludePatterns,
		ExcludePatterns: cfg.Scan.ExcludePatterns,
		Recursive:       cfg.Scan.Recursive,
		MaxCoefficient:  strconv.FormatFloat(cfg.Scan.MaxCoefficient, 'f', -1, 64),
		MaxResults:      cfg.Scan.MaxResults,

		Format:      cfg.Output.Format,
		Precision:   cfg.Output.Precision,
		ShowDetails: cfg.Output.ShowDetails,

		LogLevel: cfg.Logging.Level,
	}
}

var templateFuncs = template.FuncMap{
	"quote": tomlString,
	"list": func(values []string) string {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = tomlString(v)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	},
}

// tomlString renders a TOML literal string, falling back to a basic
// string when the value contains a single quote
func tomlString(s string) string {
	if !strings.ContainsAny(s, "'\n") {
		return "'" + s + "'"
	}
	return strconv.Quote(s)
}

// GenerateDefaultConfigTOML renders the default config template and
// returns the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Funcs(templateFuncs).Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}
