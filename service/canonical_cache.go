package service

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/similarity"
)

// CanonicalCache stores the canonical form of every file of a run so that a
// file appearing in many pairs is read and normalized once.
// After Seal() is called the cache is read-only and safe for concurrent access
// without locks.
type CanonicalCache struct {
	documents map[string]*similarity.Document
	sealed    bool
}

// NewCanonicalCache creates a new empty CanonicalCache.
func NewCanonicalCache() *CanonicalCache {
	return &CanonicalCache{
		documents: make(map[string]*similarity.Document),
	}
}

// Put stores a document. Must be called before Seal().
func (c *CanonicalCache) Put(filePath string, doc *similarity.Document) {
	if c.sealed {
		return
	}
	c.documents[filePath] = doc
}

// Seal marks the cache as read-only.
func (c *CanonicalCache) Seal() {
	c.sealed = true
}

// Get retrieves a cached document. Returns (doc, true) on hit.
func (c *CanonicalCache) Get(filePath string) (*similarity.Document, bool) {
	doc, ok := c.documents[filePath]
	return doc, ok
}

// Len returns the number of entries in the cache.
func (c *CanonicalCache) Len() int {
	return len(c.documents)
}

// CanonicalCachePopulatorConfig controls how PopulateCanonicalCache works.
type CanonicalCachePopulatorConfig struct {
	Concurrency int // 0 means runtime.GOMAXPROCS(0)
}

// PopulateCanonicalCache reads and canonicalizes all distinct files in
// parallel and returns a sealed cache. A file that cannot be read fails the
// whole run; a file that cannot be canonicalized is cached with its error
// and later compared as raw text.
func PopulateCanonicalCache(ctx context.Context, reader domain.FileReader, comparer *similarity.Comparer, files []string, cfg CanonicalCachePopulatorConfig) (*CanonicalCache, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	distinct := uniqueStrings(files)
	documents := make([]*similarity.Document, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range distinct {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := reader.ReadFile(path)
			if err != nil {
				return err
			}

			doc, err := comparer.Canonicalize(gctx, string(content))
			if err != nil {
				return err
			}
			if !doc.OK() {
				log.Debug().Str("file", path).Err(doc.Err).Msg("canonicalization failed, raw text will be used")
			}
			documents[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// single-threaded fill, no lock needed
	cache := NewCanonicalCache()
	for i, path := range distinct {
		cache.Put(path, documents[i])
	}
	cache.Seal()

	log.Debug().Int("files", cache.Len()).Int("workers", concurrency).Msg("canonical cache populated")
	return cache, nil
}

// uniqueStrings returns the distinct values in first-seen order
func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
