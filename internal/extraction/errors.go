package extraction

import "fmt"

// UnsupportedFileTypeError is returned for file extensions that cannot be extracted
type UnsupportedFileTypeError struct {
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file type %s: please upload a .pdf, .docx, .doc, .txt, or .md file", ext)
}

// ExtractionError represents a failure to read text out of a supported file
type ExtractionError struct {
	Format string
	Detail string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Detail)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
