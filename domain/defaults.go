package domain

// Normalization defaults
const (
	// DefaultPlaceholder replaces variable, parameter and function names
	DefaultPlaceholder = "a"

	// DefaultLiteralPlaceholder replaces constants standing alone as
	// statements, docstrings included
	DefaultLiteralPlaceholder = `""`

	// DefaultAsyncFunctions applies the function rules to "async def"
	DefaultAsyncFunctions = true
)

// DefaultParameterCategories lists the parameter categories renamed by
// default. Only positional-or-keyword parameters are renamed, which keeps
// scores comparable with earlier runs of the tool.
var DefaultParameterCategories = []string{"positional"}

// Output defaults
const (
	// DefaultPrecision is the number of decimal digits coefficients are
	// rounded to
	DefaultPrecision = 3

	// MaxPrecision bounds the precision accepted from configuration
	MaxPrecision = 15
)

// Batch and scan defaults
const (
	// DefaultWorkers of 0 means one worker per CPU
	DefaultWorkers = 0

	// DefaultMaxCoefficient reports scan pairs at most this different
	DefaultMaxCoefficient = 0.3

	// DefaultMaxResults caps the number of reported scan pairs; 0 means no limit
	DefaultMaxResults = 100

	// DefaultLogLevel is the zerolog level used unless --verbose is given
	DefaultLogLevel = "warn"
)

// DefaultIncludePatterns selects Python files for scans
var DefaultIncludePatterns = []string{"**/*.py"}

// DefaultExcludePatterns skips virtual environments and caches
var DefaultExcludePatterns = []string{"**/.venv/**", "**/venv/**", "**/__pycache__/**"}
