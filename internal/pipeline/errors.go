package pipeline

import (
	"errors"
	"strings"
)

// Sentinel errors returned without touching session state
var (
	// ErrBusy is returned when an operation is already running on the session
	ErrBusy = errors.New("another operation is already running")
	// ErrMissingInput is returned when the resume or job description is blank
	ErrMissingInput = errors.New("both a resume and a job description are required")
	// ErrNothingToImprove is returned when no tailored resume and report exist yet
	ErrNothingToImprove = errors.New("tailor the resume before incorporating suggestions")
	// ErrNothingToExport is returned when there is no final resume to copy
	ErrNothingToExport = errors.New("no tailored resume to export")
)

// ErrorPrefix marks an error message published in place of a resume
const ErrorPrefix = "// "

func uploadErrorMessage(err error) string {
	return ErrorPrefix + "Error parsing file: " + err.Error()
}

func runErrorMessage(err error) string {
	return ErrorPrefix + "An error occurred while communicating with the AI. " +
		"Please check the logs for details and ensure your API key is configured correctly.\n\n" + err.Error()
}

func improveErrorMessage(err error) string {
	return ErrorPrefix + "An error occurred during the improvement phase.\n\n" + err.Error()
}

// IsErrorOutput reports whether a published output is an error message
func IsErrorOutput(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}
