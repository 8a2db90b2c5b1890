package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ludo-technologies/pysim/domain"
	svc "github.com/ludo-technologies/pysim/service"
)

// BatchUseCase orchestrates the manifest-driven comparison workflow
type BatchUseCase struct {
	comparer  domain.PairComparer
	manifests domain.ManifestReader
	formatter domain.SimilarityOutputFormatter
	output    domain.ReportWriter
	progress  domain.ProgressManager
}

// NewBatchUseCase creates a new batch use case
func NewBatchUseCase(
	comparer domain.PairComparer,
	manifests domain.ManifestReader,
	formatter domain.SimilarityOutputFormatter,
) *BatchUseCase {
	return &BatchUseCase{
		comparer:  comparer,
		manifests: manifests,
		formatter: formatter,
		output:    svc.NewFileOutputWriter(nil),
	}
}

// Execute compares every manifest pair and writes one result per pair in
// manifest order
func (uc *BatchUseCase) Execute(ctx context.Context, req domain.BatchRequest) error {
	response, err := uc.CompareAndReturn(ctx, req)
	if err != nil {
		return err
	}

	// Delegate output handling to ReportWriter
	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.FormatBatch(response, req.OutputFormat, w)
	}); err != nil {
		return fmt.Errorf("failed to write batch results: %w", err)
	}

	return nil
}

// CompareAndReturn runs the batch and returns the response without formatting
func (uc *BatchUseCase) CompareAndReturn(ctx context.Context, req domain.BatchRequest) (*domain.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	pairs, err := uc.resolvePairs(req)
	if err != nil {
		return nil, err
	}

	opts := domain.CompareOptions{Workers: req.Workers}
	if req.ShowProgress && uc.progress != nil && len(pairs) > 0 {
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

	duration := time.Since(start).Milliseconds()
	log.Debug().Int("pairs", len(pairs)).Int64("duration_ms", duration).Msg("batch comparison finished")

	return &domain.BatchResponse{
		Results:    results,
		Statistics: svc.ComputeStatistics(results),
		Precision:  req.Precision,
		Duration:   duration,
		Success:    true,
	}, nil
}

// resolvePairs prefers pairs given directly over a manifest
func (uc *BatchUseCase) resolvePairs(req domain.BatchRequest) ([]domain.FilePair, error) {
	if len(req.Pairs) > 0 {
		return req.Pairs, nil
	}
	if uc.manifests == nil {
		return nil, domain.NewInvalidInputError("no manifest reader configured", nil)
	}
	return uc.manifests.ReadManifest(req.ManifestPath)
}

// BatchUseCaseBuilder provides a builder pattern for creating BatchUseCase
type BatchUseCaseBuilder struct {
	comparer  domain.PairComparer
	manifests domain.ManifestReader
	formatter domain.SimilarityOutputFormatter
	output    domain.ReportWriter
	progress  domain.ProgressManager
}

// NewBatchUseCaseBuilder creates a new builder
func NewBatchUseCaseBuilder() *BatchUseCaseBuilder {
	return &BatchUseCaseBuilder{}
}

// WithComparer sets the pair comparer
func (b *BatchUseCaseBuilder) WithComparer(comparer domain.PairComparer) *BatchUseCaseBuilder {
	b.comparer = comparer
	return b
}

// WithManifestReader sets the manifest reader
func (b *BatchUseCaseBuilder) WithManifestReader(manifests domain.ManifestReader) *BatchUseCaseBuilder {
	b.manifests = manifests
	return b
}

// WithFormatter sets the output formatter
func (b *BatchUseCaseBuilder) WithFormatter(formatter domain.SimilarityOutputFormatter) *BatchUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithOutputWriter sets the report writer
func (b *BatchUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *BatchUseCaseBuilder {
	b.output = output
	return b
}

// WithProgress sets the progress manager
func (b *BatchUseCaseBuilder) WithProgress(progress domain.ProgressManager) *BatchUseCaseBuilder {
	b.progress = progress
	return b
}

// Build creates the BatchUseCase with the configured dependencies
func (b *BatchUseCaseBuilder) Build() (*BatchUseCase, error) {
	if b.comparer == nil {
		return nil, fmt.Errorf("pair comparer is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	if b.manifests == nil {
		b.manifests = svc.NewManifestReader()
	}

	uc := NewBatchUseCase(b.comparer, b.manifests, b.formatter)
	if b.output != nil {
		uc.output = b.output
	}
	uc.progress = b.progress
	return uc, nil
}
