package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchRequestValidate(t *testing.T) {
	var out bytes.Buffer

	tests := []struct {
		name    string
		req     BatchRequest
		wantErr bool
	}{
		{"valid manifest", BatchRequest{ManifestPath: "pairs.txt", OutputWriter: &out, Precision: 3}, false},
		{"valid pairs", BatchRequest{Pairs: []FilePair{{"a.py", "b.py"}}, OutputPath: "out.txt"}, false},
		{"no input", BatchRequest{OutputWriter: &out}, true},
		{"negative precision", BatchRequest{ManifestPath: "m", OutputWriter: &out, Precision: -1}, true},
		{"huge precision", BatchRequest{ManifestPath: "m", OutputWriter: &out, Precision: 16}, true},
		{"negative workers", BatchRequest{ManifestPath: "m", OutputWriter: &out, Workers: -2}, true},
		{"no output", BatchRequest{ManifestPath: "m"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, ErrCodeInvalidInput, ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScanRequestValidate(t *testing.T) {
	var out bytes.Buffer
	valid := ScanRequest{Paths: []string{"."}, OutputWriter: &out, MaxCoefficient: 0.3, Precision: 3}
	assert.NoError(t, valid.Validate())

	noPaths := valid
	noPaths.Paths = nil
	assert.Error(t, noPaths.Validate())

	negative := valid
	negative.MaxCoefficient = -0.1
	assert.Error(t, negative.Validate())

	badResults := valid
	badResults.MaxResults = -1
	assert.Error(t, badResults.Validate())
}

func TestPairResultPair(t *testing.T) {
	r := &PairResult{First: "a.py", Second: "b.py", Coefficient: 0.5}
	assert.Equal(t, FilePair{First: "a.py", Second: "b.py"}, r.Pair())
}
