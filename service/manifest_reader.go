package service

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/pysim/domain"
)

// ManifestReaderImpl implements domain.ManifestReader
type ManifestReaderImpl struct{}

// NewManifestReader creates a new manifest reader
func NewManifestReader() *ManifestReaderImpl {
	return &ManifestReaderImpl{}
}

// ReadManifest reads the manifest file at path. Paths inside the manifest
// are returned as written.
func (m *ManifestReaderImpl) ReadManifest(path string) ([]domain.FilePair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	defer file.Close()

	return m.ParseManifest(file, path)
}

// ParseManifest consumes whitespace-separated tokens in non-overlapping
// pairs. A trailing unpaired token is an error.
func (m *ManifestReaderImpl) ParseManifest(r io.Reader, name string) ([]domain.FilePair, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to read manifest: %s", name), err)
	}

	if len(tokens)%2 != 0 {
		return nil, domain.NewManifestError(name,
			fmt.Sprintf("odd number of paths (%d); %q has no partner", len(tokens), tokens[len(tokens)-1]))
	}

	pairs := make([]domain.FilePair, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		pairs = append(pairs, domain.FilePair{First: tokens[i], Second: tokens[i+1]})
	}
	return pairs, nil
}
