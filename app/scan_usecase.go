package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ludo-technologies/pysim/domain"
	svc "github.com/ludo-technologies/pysim/service"
)

// ScanUseCase orchestrates the all-pairs similarity scan
type ScanUseCase struct {
	fileReader domain.FileReader
	comparer   domain.PairComparer
	formatter  domain.SimilarityOutputFormatter
	output     domain.ReportWriter
	progress   domain.ProgressManager
}

// NewScanUseCase creates a new scan use case
func NewScanUseCase(
	fileReader domain.FileReader,
	comparer domain.PairComparer,
	formatter domain.SimilarityOutputFormatter,
) *ScanUseCase {
	return &ScanUseCase{
		fileReader: fileReader,
		comparer:   comparer,
		formatter:  formatter,
		output:     svc.NewFileOutputWriter(nil),
	}
}

// Execute performs the scan and writes the report
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.ScanRequest) error {
	response, err := uc.ScanAndReturn(ctx, req)
	if err != nil {
		return err
	}

	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.FormatScan(response, req.OutputFormat, w)
	}); err != nil {
		return fmt.Errorf("failed to write scan results: %w", err)
	}

	return nil
}

// ScanAndReturn compares every pair of collected files and returns the pairs
// whose coefficient is at most req.MaxCoefficient, most similar first
func (uc *ScanUseCase) ScanAndReturn(ctx context.Context, req domain.ScanRequest) (*domain.ScanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	files, err := uc.fileReader.CollectPythonFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) < 2 {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("a scan needs at least two Python files, found %d", len(files)), nil)
	}

	// the coefficient is not symmetric; pairs are (earlier, later) in path order
	pairs := svc.AllPairs(files)
	log.Debug().Int("files", len(files)).Int("pairs", len(pairs)).Msg("scanning")

	opts := domain.CompareOptions{Workers: req.Workers}
	if req.ShowProgress && uc.progress != nil {
		uc.progress.Initialize(len(pairs))
		uc.progress.Start()
		opts.Progress = uc.progress
	}

	results, err := uc.comparer.ComparePairs(ctx, pairs, opts)
	if opts.Progress != nil {
		opts.Progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}

	return &domain.ScanResponse{
		Matches:       selectMatches(results, req.MaxCoefficient, req.MaxResults),
		Statistics:    svc.ComputeStatistics(results),
		FilesScanned:  len(files),
		PairsCompared: len(pairs),
		Precision:     req.Precision,
		Duration:      time.Since(start).Milliseconds(),
		Success:       true,
	}, nil
}

// selectMatches keeps results at or below the threshold, sorted by
// coefficient then by path, truncated to limit (0 means no limit)
func selectMatches(results []*domain.PairResult, threshold float64, limit int) []*domain.PairResult {
	matches := make([]*domain.PairResult, 0)
	for _, r := range results {
		if r.Coefficient <= threshold {
			matches = append(matches, r)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Coefficient != matches[j].Coefficient {
			return matches[i].Coefficient < matches[j].Coefficient
		}
		if matches[i].First != matches[j].First {
			return matches[i].First < matches[j].First
		}
		return matches[i].Second < matches[j].Second
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ScanUseCaseBuilder provides a builder pattern for creating ScanUseCase
type ScanUseCaseBuilder struct {
	fileReader domain.FileReader
	comparer   domain.PairComparer
	formatter  domain.SimilarityOutputFormatter
	output     domain.ReportWriter
	progress   domain.ProgressManager
}

// NewScanUseCaseBuilder creates a new builder
func NewScanUseCaseBuilder() *ScanUseCaseBuilder {
	return &ScanUseCaseBuilder{}
}

// WithFileReader sets the file reader
func (b *ScanUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *ScanUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithComparer sets the pair comparer
func (b *ScanUseCaseBuilder) WithComparer(comparer domain.PairComparer) *ScanUseCaseBuilder {
	b.comparer = comparer
	return b
}

// WithFormatter sets the output formatter
func (b *ScanUseCaseBuilder) WithFormatter(formatter domain.SimilarityOutputFormatter) *ScanUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithOutputWriter sets the report writer
func (b *ScanUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *ScanUseCaseBuilder {
	b.output = output
	return b
}

// WithProgress sets the progress manager
func (b *ScanUseCaseBuilder) WithProgress(progress domain.ProgressManager) *ScanUseCaseBuilder {
	b.progress = progress
	return b
}

// Build creates the ScanUseCase with the configured dependencies
func (b *ScanUseCaseBuilder) Build() (*ScanUseCase, error) {
	if b.comparer == nil {
		return nil, fmt.Errorf("pair comparer is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.fileReader == nil {
		b.fileReader = svc.NewFileReader()
	}

	uc := NewScanUseCase(b.fileReader, b.comparer, b.formatter)
	if b.output != nil {
		uc.output = b.output
	}
	uc.progress = b.progress
	return uc, nil
}
