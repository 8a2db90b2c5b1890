package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/normalizer"
	"github.com/ludo-technologies/pysim/internal/similarity"
)

// countingReader counts reads per path
type countingReader struct {
	*FileReaderImpl
	mu    sync.Mutex
	reads map[string]int
}

func newCountingReader() *countingReader {
	return &countingReader{FileReaderImpl: NewFileReader(), reads: make(map[string]int)}
}

func (r *countingReader) ReadFile(path string) ([]byte, error) {
	r.mu.Lock()
	r.reads[path]++
	r.mu.Unlock()
	return r.FileReaderImpl.ReadFile(path)
}

func TestCanonicalCachePutGetSeal(t *testing.T) {
	cache := NewCanonicalCache()
	assert.Equal(t, 0, cache.Len())

	cache.Put("a.py", &similarity.Document{Raw: "x = 1", Canonical: "a = 1"})
	cache.Seal()
	cache.Put("b.py", &similarity.Document{Raw: "y = 2"})

	doc, ok := cache.Get("a.py")
	require.True(t, ok)
	assert.Equal(t, "a = 1", doc.Canonical)

	_, ok = cache.Get("b.py")
	assert.False(t, ok, "Put after Seal should be ignored")
	assert.Equal(t, 1, cache.Len())
}

func TestPopulateCanonicalCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"good.py":   "def f(x):\n    return x\n",
		"broken.py": "def f(:\n",
	})
	good := filepath.Join(root, "good.py")
	broken := filepath.Join(root, "broken.py")

	reader := newCountingReader()
	comparer := similarity.NewComparer(normalizer.DefaultOptions())

	cache, err := PopulateCanonicalCache(context.Background(), reader, comparer,
		[]string{good, broken, good, good, broken}, CanonicalCachePopulatorConfig{Concurrency: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 1, reader.reads[good])
	assert.Equal(t, 1, reader.reads[broken])

	doc, ok := cache.Get(good)
	require.True(t, ok)
	assert.True(t, doc.OK())
	assert.Equal(t, "def a(a):\n    return a", doc.Canonical)

	doc, ok = cache.Get(broken)
	require.True(t, ok)
	assert.False(t, doc.OK())
	assert.Equal(t, "def f(:\n", doc.Raw)
}

func TestPopulateCanonicalCacheMissingFile(t *testing.T) {
	comparer := similarity.NewComparer(normalizer.DefaultOptions())
	_, err := PopulateCanonicalCache(context.Background(), NewFileReader(), comparer,
		[]string{filepath.Join(t.TempDir(), "missing.py")}, CanonicalCachePopulatorConfig{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
}

// cancellingReader cancels the run as soon as a file has been read
type cancellingReader struct {
	*FileReaderImpl
	cancel context.CancelFunc
}

func (r *cancellingReader) ReadFile(path string) ([]byte, error) {
	r.cancel()
	return r.FileReaderImpl.ReadFile(path)
}

func TestPopulateCanonicalCacheAbortsOnCancel(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"good.py": "def f(x):\n    return x\n"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &cancellingReader{FileReaderImpl: NewFileReader(), cancel: cancel}
	comparer := similarity.NewComparer(normalizer.DefaultOptions())

	cache, err := PopulateCanonicalCache(ctx, reader, comparer,
		[]string{filepath.Join(root, "good.py")}, CanonicalCachePopulatorConfig{Concurrency: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, cache)
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, uniqueStrings([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, uniqueStrings(nil))
}
