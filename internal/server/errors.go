// Package server provides the HTTP REST API for the resume tailor.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

// ErrSessionNotFound indicates the session does not exist or has expired
type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrSessionNotFound
		invalid     *ErrValidation
		fields      validator.ValidationErrors
		unsupported *extraction.UnsupportedFileTypeError
		extractErr  *extraction.ExtractionError
		gateway     *tailoring.GatewayError
		schema      *tailoring.SchemaViolationError
		tooLarge    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &invalid), errors.As(err, &fields),
		errors.Is(err, pipeline.ErrMissingInput),
		errors.Is(err, pipeline.ErrNothingToImprove),
		errors.Is(err, pipeline.ErrNothingToExport),
		errors.Is(err, ingestion.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractErr), errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &gateway), errors.As(err, &schema), errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
