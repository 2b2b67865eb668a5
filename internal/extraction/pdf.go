package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the plain text of every page in order, one line break per page.
func extractPDF(data []byte) (result *Result, err error) {
	if !hasMIME(mimetype.Detect(data), "application/pdf") {
		return nil, &ExtractionError{Format: FormatPDF, Detail: "file content is not a PDF document"}
	}

	// The parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionError{
				Format: FormatPDF,
				Detail: "malformed PDF document",
				Cause:  fmt.Errorf("%v", r),
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Format: FormatPDF, Detail: "failed to open PDF", Cause: err}
	}

	numPages := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				return nil, &ExtractionError{
					Format: FormatPDF,
					Detail: fmt.Sprintf("failed to read page %d", i),
					Cause:  err,
				}
			}
			sb.WriteString(text)
		}
		sb.WriteString("\n")
	}

	return &Result{Text: sb.String(), PageCount: numPages}, nil
}
