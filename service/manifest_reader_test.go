package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pysim/domain"
)

func TestManifestReader_ParseManifest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []domain.FilePair
	}{
		{
			name:     "empty",
			input:    "",
			expected: []domain.FilePair{},
		},
		{
			name:  "pairs do not overlap",
			input: "a.py b.py c.py a.py",
			expected: []domain.FilePair{
				{First: "a.py", Second: "b.py"},
				{First: "c.py", Second: "a.py"},
			},
		},
		{
			name:  "any whitespace separates",
			input: "  x.py\n\ty.py\r\n\n z.py   w.py\n",
			expected: []domain.FilePair{
				{First: "x.py", Second: "y.py"},
				{First: "z.py", Second: "w.py"},
			},
		},
		{
			name:  "pair may span lines",
			input: "one.py\ntwo.py\n",
			expected: []domain.FilePair{
				{First: "one.py", Second: "two.py"},
			},
		},
	}

	reader := NewManifestReader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := reader.ParseManifest(strings.NewReader(tt.input), "manifest.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pairs)
		})
	}
}

func TestManifestReader_OddTokenCount(t *testing.T) {
	reader := NewManifestReader()

	_, err := reader.ParseManifest(strings.NewReader("a.py b.py c.py"), "files.txt")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
	assert.Contains(t, err.Error(), "files.txt")
	assert.Contains(t, err.Error(), "c.py")
}

func TestManifestReader_ReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.txt")
	require.NoError(t, os.WriteFile(path, []byte("a.py b.py\n"), 0o644))

	reader := NewManifestReader()
	pairs, err := reader.ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.FilePair{{First: "a.py", Second: "b.py"}}, pairs)

	_, err = reader.ReadManifest(filepath.Join(dir, "missing.txt"))
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
}
