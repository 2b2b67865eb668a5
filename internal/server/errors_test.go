package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
)

func TestErrSessionNotFound(t *testing.T) {
	err := &ErrSessionNotFound{SessionID: "abc"}
	assert.Equal(t, "session not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "file", Message: "required"}
	assert.Equal(t, "validation error: file - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	fieldErr := (&types.FetchJobRequest{URL: "not a url"}).Validate()
	require.Error(t, fieldErr)
	var fields validator.ValidationErrors
	require.True(t, errors.As(fieldErr, &fields))

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "session not found", err: &ErrSessionNotFound{SessionID: "x"}, expected: http.StatusNotFound},
		{name: "busy", err: pipeline.ErrBusy, expected: http.StatusConflict},
		{name: "missing input", err: pipeline.ErrMissingInput, expected: http.StatusBadRequest},
		{name: "nothing to improve", err: pipeline.ErrNothingToImprove, expected: http.StatusBadRequest},
		{name: "nothing to export", err: pipeline.ErrNothingToExport, expected: http.StatusBadRequest},
		{name: "validation", err: &ErrValidation{Field: "url", Message: "required"}, expected: http.StatusBadRequest},
		{name: "validator field errors", err: fieldErr, expected: http.StatusBadRequest},
		{name: "invalid url", err: fmt.Errorf("%w: bad", ingestion.ErrInvalidURL), expected: http.StatusBadRequest},
		{name: "upload too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "unsupported file", err: &extraction.UnsupportedFileTypeError{Extension: ".exe"}, expected: http.StatusUnsupportedMediaType},
		{name: "extraction", err: &extraction.ExtractionError{Format: "pdf", Detail: "broken"}, expected: http.StatusUnprocessableEntity},
		{name: "no content", err: fmt.Errorf("%w: empty", ingestion.ErrContentExtractionFailed), expected: http.StatusUnprocessableEntity},
		{name: "gateway", err: &tailoring.GatewayError{Operation: "tailor", Message: "timeout"}, expected: http.StatusBadGateway},
		{name: "schema violation", err: &tailoring.SchemaViolationError{Schema: "alignment", Message: "score"}, expected: http.StatusBadGateway},
		{name: "upstream fetch", err: fmt.Errorf("%w: 404", ingestion.ErrHTTPRequestFailed), expected: http.StatusBadGateway},
		{name: "wrapped busy", err: fmt.Errorf("upload: %w", pipeline.ErrBusy), expected: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
