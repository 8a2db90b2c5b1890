package domain

import (
	"context"
	"io"
)

// ComparisonMode tells which texts a pair was scored on
type ComparisonMode string

const (
	// ModeNormalized means both files were canonicalized
	ModeNormalized ComparisonMode = "normalized"
	// ModeRaw means at least one file failed to canonicalize and both
	// were compared verbatim
	ModeRaw ComparisonMode = "raw"
)

// FilePair is an ordered pair of files to compare. The coefficient is not
// symmetric, so order matters.
type FilePair struct {
	First  string `json:"first" yaml:"first" csv:"first"`
	Second string `json:"second" yaml:"second" csv:"second"`
}

// PairResult is the outcome of comparing one pair
type PairResult struct {
	First          string         `json:"first" yaml:"first" csv:"first"`
	Second         string         `json:"second" yaml:"second" csv:"second"`
	Coefficient    float64        `json:"coefficient" yaml:"coefficient" csv:"coefficient"`
	Distance       int            `json:"distance" yaml:"distance" csv:"distance"`
	Mode           ComparisonMode `json:"mode" yaml:"mode" csv:"mode"`
	FallbackReason string         `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty" csv:"fallback_reason"`
}

// Pair returns the pair the result was computed for
func (r *PairResult) Pair() FilePair {
	return FilePair{First: r.First, Second: r.Second}
}

// CompareOptions controls a parallel run over many pairs
type CompareOptions struct {
	// Workers bounds parallelism; 0 means one worker per CPU
	Workers int

	// Progress, when non-nil, is advanced once per finished pair
	Progress ProgressManager
}

// BatchRequest represents a manifest-driven comparison run
type BatchRequest struct {
	// Input: either a manifest path or pairs given directly
	ManifestPath string     `json:"manifest_path"`
	Pairs        []FilePair `json:"pairs,omitempty"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	Precision    int          `json:"precision"`
	ShowDetails  bool         `json:"show_details"`

	// Execution
	Workers      int  `json:"workers"`
	ShowProgress bool `json:"show_progress"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate validates a batch request
func (req *BatchRequest) Validate() error {
	if req.ManifestPath == "" && len(req.Pairs) == 0 {
		return NewValidationError("manifest path cannot be empty")
	}
	if req.Precision < 0 || req.Precision > MaxPrecision {
		return NewValidationError("precision must be between 0 and 15")
	}
	if req.Workers < 0 {
		return NewValidationError("workers must be >= 0")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return NewValidationError("output writer or output path is required")
	}
	return nil
}

// BatchResponse represents the results of a batch run in manifest order
type BatchResponse struct {
	Results    []*PairResult    `json:"results" yaml:"results"`
	Statistics *BatchStatistics `json:"statistics" yaml:"statistics"`

	// Metadata
	Precision int   `json:"precision" yaml:"precision"`
	Duration  int64 `json:"duration_ms" yaml:"duration_ms"`
	Success   bool  `json:"success" yaml:"success"`
}

// BatchStatistics summarizes a set of pair results
type BatchStatistics struct {
	Pairs          int     `json:"pairs" yaml:"pairs"`
	Files          int     `json:"files" yaml:"files"`
	Fallbacks      int     `json:"fallbacks" yaml:"fallbacks"`
	MinCoefficient float64 `json:"min_coefficient" yaml:"min_coefficient"`
	MaxCoefficient float64 `json:"max_coefficient" yaml:"max_coefficient"`
	AvgCoefficient float64 `json:"avg_coefficient" yaml:"avg_coefficient"`
}

// ScanRequest represents an all-pairs similarity scan over a file tree
type ScanRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Filtering
	MaxCoefficient float64 `json:"max_coefficient"`
	MaxResults     int     `json:"max_results"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	Precision    int          `json:"precision"`
	ShowDetails  bool         `json:"show_details"`

	// Execution
	Workers      int  `json:"workers"`
	ShowProgress bool `json:"show_progress"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate validates a scan request
func (req *ScanRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}
	if req.MaxCoefficient < 0 {
		return NewValidationError("max_coefficient must be >= 0")
	}
	if req.MaxResults < 0 {
		return NewValidationError("max_results must be >= 0")
	}
	if req.Precision < 0 || req.Precision > MaxPrecision {
		return NewValidationError("precision must be between 0 and 15")
	}
	if req.Workers < 0 {
		return NewValidationError("workers must be >= 0")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return NewValidationError("output writer or output path is required")
	}
	return nil
}

// ScanResponse represents the pairs found by a scan, most similar first
type ScanResponse struct {
	Matches    []*PairResult    `json:"matches" yaml:"matches"`
	Statistics *BatchStatistics `json:"statistics" yaml:"statistics"`

	// Metadata
	FilesScanned  int   `json:"files_scanned" yaml:"files_scanned"`
	PairsCompared int   `json:"pairs_compared" yaml:"pairs_compared"`
	Precision     int   `json:"precision" yaml:"precision"`
	Duration      int64 `json:"duration_ms" yaml:"duration_ms"`
	Success       bool  `json:"success" yaml:"success"`
}

// ManifestReader reads pair manifests
type ManifestReader interface {
	// ReadManifest reads the manifest file at path
	ReadManifest(path string) ([]FilePair, error)

	// ParseManifest reads whitespace-separated paths two at a time
	ParseManifest(r io.Reader, name string) ([]FilePair, error)
}

// FileReader defines the interface for reading and collecting source files
type FileReader interface {
	// CollectPythonFiles collects Python files from the given paths
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// FileExists checks if a file exists
	FileExists(path string) (bool, error)
}

// PairComparer scores pairs of files
type PairComparer interface {
	// ComparePairs scores every pair, returning results in input order
	ComparePairs(ctx context.Context, pairs []FilePair, opts CompareOptions) ([]*PairResult, error)
}

// SimilarityOutputFormatter renders batch and scan responses
type SimilarityOutputFormatter interface {
	// FormatBatch writes batch results in the given format
	FormatBatch(response *BatchResponse, format OutputFormat, writer io.Writer) error

	// FormatScan writes scan results in the given format
	FormatScan(response *ScanResponse, format OutputFormat, writer io.Writer) error
}
