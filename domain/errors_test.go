package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name     string
		err      error
		code     string
		contains string
	}{
		{"invalid input", NewInvalidInputError("bad flag", nil), ErrCodeInvalidInput, "bad flag"},
		{"file not found", NewFileNotFoundError("a.py", cause), ErrCodeFileNotFound, "file not found: a.py"},
		{"parse", NewParseError("a.py", cause), ErrCodeParseError, "failed to parse file: a.py"},
		{"manifest", NewManifestError("pairs.txt", "odd number of paths"), ErrCodeInvalidInput, "invalid manifest pairs.txt"},
		{"config", NewConfigError("bad config", cause), ErrCodeConfigError, "bad config"},
		{"output", NewOutputError("cannot write", cause), ErrCodeOutputError, "cannot write"},
		{"format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat, "unsupported format: xml"},
		{"validation", NewValidationError("paths cannot be empty"), ErrCodeInvalidInput, "paths cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.Contains(t, tt.err.Error(), "["+tt.code+"]")
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("batch failed: %w", NewOutputError("cannot write", cause))

	var domainErr DomainError
	require.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, ErrCodeOutputError, domainErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ErrCodeOutputError, ErrorCode(wrapped))
	assert.Empty(t, ErrorCode(cause))
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputFormatText, false},
		{"text", OutputFormatText, false},
		{"JSON", OutputFormatJSON, false},
		{" yaml ", OutputFormatYAML, false},
		{"csv", OutputFormatCSV, false},
		{"html", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, ErrCodeUnsupportedFormat, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
