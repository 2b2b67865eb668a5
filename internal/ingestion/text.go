package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/extraction"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	blankStreak = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalises line endings and spacing while keeping markdown
// headings, bullet indentation and paragraph breaks. Runs of blank lines
// collapse to one.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankStreak.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}

	// Headings lose their indentation; everything else keeps it.
	if strings.HasPrefix(trimmed, "#") {
		return innerSpace.ReplaceAllString(strings.TrimSpace(trimmed), " ")
	}

	indent := strings.Repeat(" ", len(strings.ReplaceAll(line[:len(line)-len(trimmed)], "\t", "  ")))
	return indent + innerSpace.ReplaceAllString(strings.TrimSpace(trimmed), " ")
}

// ErrEmptyContent is returned when a source holds no usable text
var ErrEmptyContent = errors.New("job description is empty")

// IngestFromFile reads a job description from disk. Plain text and markdown
// are read directly; PDF and Word files go through text extraction.
func IngestFromFile(ctx context.Context, path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	format := extraction.Extension(path)
	text := string(content)
	switch format {
	case extraction.FormatPDF, extraction.FormatDocx, extraction.FormatDoc:
		result, err := extraction.Extract(ctx, content, filepath.Base(path))
		if err != nil {
			return "", nil, fmt.Errorf("failed to extract %s: %w", path, err)
		}
		text = result.Text
	case extraction.FormatMarkdown:
	default:
		format = extraction.FormatText
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%s: %w", path, ErrEmptyContent)
	}

	return cleaned, fileMetadata(path, format, cleaned), nil
}

// Files written by WriteOutput
const (
	TextFileName = "job_description.txt"
	MetaFileName = "job_description.meta.json"
)

// WriteOutput writes the cleaned text and its metadata into outDir
func WriteOutput(outDir string, cleanedText string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, TextFileName)
	if err := os.WriteFile(textPath, []byte(cleanedText+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write job description: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(outDir, MetaFileName)
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
