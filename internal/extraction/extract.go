// Package extraction turns uploaded resume files into plain UTF-8 text.
package extraction

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Supported formats
const (
	FormatPDF      = "pdf"
	FormatDoc      = "doc"
	FormatDocx     = "docx"
	FormatText     = "txt"
	FormatMarkdown = "md"
)

// DefaultMaxFileSize is the largest upload accepted by default (10 MiB)
const DefaultMaxFileSize int64 = 10 << 20

var supported = map[string]bool{
	FormatPDF:      true,
	FormatDoc:      true,
	FormatDocx:     true,
	FormatText:     true,
	FormatMarkdown: true,
}

// Result is the text extracted from one file
type Result struct {
	Text      string `json:"text"`
	Format    string `json:"format"`
	PageCount int    `json:"page_count,omitempty"`
}

// Extractor extracts text from uploaded files
type Extractor struct {
	MaxFileSize int64
}

// New creates an Extractor. A non-positive maxFileSize means DefaultMaxFileSize.
func New(maxFileSize int64) *Extractor {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Extractor{MaxFileSize: maxFileSize}
}

var defaultExtractor = New(DefaultMaxFileSize)

// Extract extracts text using the default size limit
func Extract(ctx context.Context, data []byte, fileName string) (*Result, error) {
	return defaultExtractor.Extract(ctx, data, fileName)
}

// Extension returns the lower-cased extension of fileName without the dot
func Extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// Supported reports whether the file name has an extractable extension
func Supported(fileName string) bool {
	return supported[Extension(fileName)]
}

// Extract returns the plain text of a file, choosing the parser by the file
// name's extension. The text is never blank on success.
func (x *Extractor) Extract(ctx context.Context, data []byte, fileName string) (*Result, error) {
	format := Extension(fileName)
	if !supported[format] {
		return nil, &UnsupportedFileTypeError{Extension: format}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if x.MaxFileSize > 0 && int64(len(data)) > x.MaxFileSize {
		return nil, &ExtractionError{
			Format: format,
			Detail: "file exceeds the maximum upload size of " + humanSize(x.MaxFileSize),
		}
	}

	var (
		result *Result
		err    error
	)
	switch format {
	case FormatPDF:
		result, err = extractPDF(data)
	case FormatDoc, FormatDocx:
		result, err = extractWord(format, data)
	default:
		result = &Result{Text: decodeText(data)}
	}
	if err != nil {
		return nil, err
	}

	result.Format = format
	if strings.TrimSpace(result.Text) == "" {
		return nil, &ExtractionError{Format: format, Detail: "no text content found"}
	}
	return result, nil
}

// decodeText decodes text files verbatim, dropping a UTF-8 byte order mark
// and replacing invalid byte sequences.
func decodeText(data []byte) string {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return text
}

// hasMIME reports whether the detected type or one of its parents is mime.
func hasMIME(m *mimetype.MIME, mime string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(mime) {
			return true
		}
	}
	return false
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return strconv.FormatInt(n>>20, 10) + " MiB"
	case n >= 1<<10 && n%(1<<10) == 0:
		return strconv.FormatInt(n>>10, 10) + " KiB"
	default:
		return strconv.FormatInt(n, 10) + " bytes"
	}
}
