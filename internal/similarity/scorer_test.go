package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoefficient(t *testing.T) {
	tests := []struct {
		name         string
		text1, text2 string
		want         float64
	}{
		{"both empty", "", "", 0},
		{"identical", "abc", "abc", 0},
		{"kitten sitting", "kitten", "sitting", 3.0 / 7.0},
		{"second empty", "abcd", "", 1},
		{"first empty", "", "abcd", 1},
		{"second longer", "ab", "abcd", 0.5},
		{"much shorter second", "aaaaaaaa", "ab", 7.0 / 6.0},
		{"code points", "日本", "日本語", 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Coefficient(tt.text1, tt.text2), 1e-12)
		})
	}
}

func TestCoefficientIsAsymmetric(t *testing.T) {
	// the divisor depends on the second text's length
	assert.InDelta(t, 1.0/3.0, Coefficient("abcdef", "abc"), 1e-12)
	assert.InDelta(t, 0.5, Coefficient("abc", "abcdef"), 1e-12)
}
