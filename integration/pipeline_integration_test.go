package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/pysim/app"
	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/normalizer"
	"github.com/ludo-technologies/pysim/service"
)

// writeSubmissions creates n files where every third one is a renamed
// copy of the first
func writeSubmissions(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		var content string
		switch i % 3 {
		case 0:
			content = fmt.Sprintf("def solve_%d(values):\n    return sorted(values)[0]\n", i)
		case 1:
			content = "total = 0\nfor v in range(10):\n    total += v\nprint(total)\n"
		default:
			content = "class Node:\n    def __init__(self, value):\n        self.value = value\n"
		}
		paths[i] = filepath.Join(dir, fmt.Sprintf("s%02d.py", i))
		if err := os.WriteFile(paths[i], []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	return paths
}

func newBatchUseCase(t *testing.T) *app.BatchUseCase {
	t.Helper()
	uc, err := app.NewBatchUseCaseBuilder().
		WithComparer(service.NewPairService(service.NewFileReader(), normalizer.DefaultOptions())).
		WithManifestReader(service.NewManifestReader()).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		t.Fatalf("Failed to build use case: %v", err)
	}
	return uc
}

// TestBatchOutputIndependentOfWorkers runs the same manifest with several
// worker counts and expects identical output
func TestBatchOutputIndependentOfWorkers(t *testing.T) {
	paths := writeSubmissions(t, 12)

	var manifest strings.Builder
	for i := range paths {
		fmt.Fprintf(&manifest, "%s %s\n", paths[i], paths[(i*5+1)%len(paths)])
	}
	manifestPath := filepath.Join(t.TempDir(), "pairs.txt")
	if err := os.WriteFile(manifestPath, []byte(manifest.String()), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	var reference string
	for _, workers := range []int{1, 2, 8} {
		var out bytes.Buffer
		err := newBatchUseCase(t).Execute(context.Background(), domain.BatchRequest{
			ManifestPath: manifestPath,
			OutputFormat: domain.OutputFormatText,
			OutputWriter: &out,
			Precision:    3,
			Workers:      workers,
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}

		if got := strings.Count(out.String(), "\n"); got != len(paths) {
			t.Fatalf("workers=%d: expected %d lines, got %d", workers, len(paths), got)
		}
		if reference == "" {
			reference = out.String()
		} else if out.String() != reference {
			t.Errorf("workers=%d: output differs from single worker run\n%s\nvs\n%s", workers, out.String(), reference)
		}
	}
}

// TestBatchCancellation checks that a cancelled context stops the run
func TestBatchCancellation(t *testing.T) {
	paths := writeSubmissions(t, 6)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newBatchUseCase(t).Execute(ctx, domain.BatchRequest{
		Pairs:        []domain.FilePair{{First: paths[0], Second: paths[1]}, {First: paths[2], Second: paths[3]}},
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &out,
		Precision:    3,
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("No output expected after cancellation, got %q", out.String())
	}
}

// TestScanFindsRenamedCopies runs the scan use case over generated submissions
func TestScanFindsRenamedCopies(t *testing.T) {
	paths := writeSubmissions(t, 7)

	uc, err := app.NewScanUseCaseBuilder().
		WithComparer(service.NewPairService(nil, normalizer.DefaultOptions())).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		t.Fatalf("Failed to build scan use case: %v", err)
	}

	response, err := uc.ScanAndReturn(context.Background(), domain.ScanRequest{
		Paths:           []string{filepath.Dir(paths[0])},
		Recursive:       true,
		IncludePatterns: domain.DefaultIncludePatterns,
		MaxCoefficient:  0,
		OutputFormat:    domain.OutputFormatJSON,
		OutputWriter:    &bytes.Buffer{},
		Precision:       3,
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// files 0, 3 and 6 normalize to the same text, as do 1, 4 and 2, 5
	if len(response.Matches) != 5 {
		for _, m := range response.Matches {
			t.Logf("%s <-> %s %v", m.First, m.Second, m.Coefficient)
		}
		t.Fatalf("Expected 5 identical pairs, got %d", len(response.Matches))
	}
	if response.PairsCompared != 21 {
		t.Errorf("Expected 21 pairs for 7 files, got %d", response.PairsCompared)
	}
}
