// Package similarity scores how alike two Python sources are. Sources are
// canonicalized first so that renaming, docstrings, decorators and return
// annotations do not count; sources that cannot be canonicalized are
// compared as raw text.
package similarity

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/pysim/internal/normalizer"
	"github.com/ludo-technologies/pysim/internal/parser"
)

// Mode tells which texts a comparison was computed on
type Mode string

const (
	// ModeNormalized compares the canonical texts of both sources
	ModeNormalized Mode = "normalized"
	// ModeRaw compares both sources verbatim
	ModeRaw Mode = "raw"
)

// Document is one source together with its canonical form, or the error
// that prevented computing it
type Document struct {
	Raw       string
	Canonical string
	Err       error
}

// OK reports whether the canonical form is available
func (d *Document) OK() bool {
	return d != nil && d.Err == nil
}

// Comparison is the outcome of comparing two sources
type Comparison struct {
	Coefficient    float64 `json:"coefficient" yaml:"coefficient"`
	Distance       int     `json:"distance" yaml:"distance"`
	Mode           Mode    `json:"mode" yaml:"mode"`
	FallbackReason string  `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
}

// Comparer canonicalizes and scores sources. It is safe for concurrent use.
type Comparer struct {
	normalizer *normalizer.Normalizer
}

// NewComparer creates a comparer using the given normalizer options
func NewComparer(opts normalizer.Options) *Comparer {
	return &Comparer{
		normalizer: normalizer.New(opts),
	}
}

// Canonicalize parses, normalizes and serializes a source. It never
// panics; every canonicalization failure is reported through Document.Err.
// A done context is returned as an error instead, so that cancellation can
// never turn a valid source into a raw text fallback.
func (c *Comparer) Canonicalize(ctx context.Context, text string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := c.canonicalize(ctx, text)
	if doc.Err != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (c *Comparer) canonicalize(ctx context.Context, text string) (doc *Document) {
	doc = &Document{Raw: text}

	defer func() {
		if r := recover(); r != nil {
			doc.Canonical = ""
			doc.Err = fmt.Errorf("canonicalization panicked: %v", r)
		}
	}()

	tree, err := c.NormalizedTree(ctx, text)
	if err != nil {
		doc.Err = err
		return doc
	}

	canonical, err := parser.Unparse(tree)
	if err != nil {
		doc.Err = fmt.Errorf("failed to serialize normalized tree: %w", err)
		return doc
	}

	doc.Canonical = canonical
	return doc
}

// NormalizedTree parses a source and normalizes its tree
func (c *Comparer) NormalizedTree(ctx context.Context, text string) (*parser.Tree, error) {
	// parsers are not safe for concurrent use
	tree, err := parser.New().ParseTree(ctx, []byte(text))
	if err != nil {
		return nil, err
	}
	return c.normalizer.Normalize(tree), nil
}

// Score compares two canonicalized documents. When either has no
// canonical form both are compared as raw text.
func (c *Comparer) Score(doc1, doc2 *Document) *Comparison {
	if doc1.OK() && doc2.OK() {
		coefficient, distance := score(doc1.Canonical, doc2.Canonical)
		return &Comparison{
			Coefficient: coefficient,
			Distance:    distance,
			Mode:        ModeNormalized,
		}
	}

	coefficient, distance := score(doc1.Raw, doc2.Raw)
	return &Comparison{
		Coefficient:    coefficient,
		Distance:       distance,
		Mode:           ModeRaw,
		FallbackReason: fallbackReason(doc1, doc2),
	}
}

// Compare canonicalizes both sources and scores them. The only error is
// the context's.
func (c *Comparer) Compare(ctx context.Context, text1, text2 string) (*Comparison, error) {
	doc1, err := c.Canonicalize(ctx, text1)
	if err != nil {
		return nil, err
	}
	doc2, err := c.Canonicalize(ctx, text2)
	if err != nil {
		return nil, err
	}
	return c.Score(doc1, doc2), nil
}

// Compare returns the similarity coefficient of two Python sources using
// the default normalizer options. It never fails.
func Compare(text1, text2 string) float64 {
	// a background context is never done
	result, _ := NewComparer(normalizer.DefaultOptions()).
		Compare(context.Background(), text1, text2)
	return result.Coefficient
}

func fallbackReason(doc1, doc2 *Document) string {
	switch {
	case !doc1.OK() && !doc2.OK():
		return fmt.Sprintf("first source: %v; second source: %v", doc1.Err, doc2.Err)
	case !doc1.OK():
		return fmt.Sprintf("first source: %v", doc1.Err)
	default:
		return fmt.Sprintf("second source: %v", doc2.Err)
	}
}
