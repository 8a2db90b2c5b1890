package service

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/normalizer"
	"github.com/ludo-technologies/pysim/internal/similarity"
)

// PairService implements domain.PairComparer on files
type PairService struct {
	reader   domain.FileReader
	comparer *similarity.Comparer
}

// NewPairService creates a pair service that reads files with reader and
// canonicalizes them with the given normalizer options
func NewPairService(reader domain.FileReader, opts normalizer.Options) *PairService {
	if reader == nil {
		reader = NewFileReader()
	}
	return &PairService{
		reader:   reader,
		comparer: similarity.NewComparer(opts),
	}
}

// Comparer returns the comparer used for scoring
func (s *PairService) Comparer() *similarity.Comparer {
	return s.comparer
}

// ComparePairs scores every pair. Results are in input order whatever the
// number of workers.
func (s *PairService) ComparePairs(ctx context.Context, pairs []domain.FilePair, opts domain.CompareOptions) ([]*domain.PairResult, error) {
	if len(pairs) == 0 {
		return []*domain.PairResult{}, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		files = append(files, p.First, p.Second)
	}

	cache, err := PopulateCanonicalCache(ctx, s.reader, s.comparer, files, CanonicalCachePopulatorConfig{
		Concurrency: workers,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*domain.PairResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := s.scorePair(cache, pair)
			if err != nil {
				return err
			}
			results[i] = result

			if opts.Progress != nil {
				opts.Progress.Increment()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *PairService) scorePair(cache *CanonicalCache, pair domain.FilePair) (*domain.PairResult, error) {
	doc1, ok := cache.Get(pair.First)
	if !ok {
		return nil, fmt.Errorf("no cached document for %s", pair.First)
	}
	doc2, ok := cache.Get(pair.Second)
	if !ok {
		return nil, fmt.Errorf("no cached document for %s", pair.Second)
	}

	comparison := s.comparer.Score(doc1, doc2)
	if comparison.Mode == similarity.ModeRaw {
		log.Debug().
			Str("first", pair.First).
			Str("second", pair.Second).
			Str("reason", comparison.FallbackReason).
			Msg("compared as raw text")
	}

	return NewPairResult(pair, comparison), nil
}

// NewPairResult converts a comparison into a pair result
func NewPairResult(pair domain.FilePair, comparison *similarity.Comparison) *domain.PairResult {
	return &domain.PairResult{
		First:          pair.First,
		Second:         pair.Second,
		Coefficient:    comparison.Coefficient,
		Distance:       comparison.Distance,
		Mode:           domain.ComparisonMode(comparison.Mode),
		FallbackReason: comparison.FallbackReason,
	}
}

// AllPairs returns every unordered pair of files as (earlier, later)
func AllPairs(files []string) []domain.FilePair {
	if len(files) < 2 {
		return nil
	}
	pairs := make([]domain.FilePair, 0, len(files)*(len(files)-1)/2)
	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			pairs = append(pairs, domain.FilePair{First: files[i], Second: files[j]})
		}
	}
	return pairs
}

// ComputeStatistics summarizes a set of results
func ComputeStatistics(results []*domain.PairResult) *domain.BatchStatistics {
	stats := &domain.BatchStatistics{Pairs: len(results)}
	if len(results) == 0 {
		return stats
	}

	files := make(map[string]bool)
	sum := 0.0
	stats.MinCoefficient = results[0].Coefficient
	stats.MaxCoefficient = results[0].Coefficient

	for _, r := range results {
		files[r.First] = true
		files[r.Second] = true
		if r.Mode == domain.ModeRaw {
			stats.Fallbacks++
		}
		stats.MinCoefficient = min(stats.MinCoefficient, r.Coefficient)
		stats.MaxCoefficient = max(stats.MaxCoefficient, r.Coefficient)
		sum += r.Coefficient
	}

	stats.Files = len(files)
	stats.AvgCoefficient = sum / float64(len(results))
	return stats
}
