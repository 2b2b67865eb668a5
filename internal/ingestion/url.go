// Package ingestion turns a job posting URL or file into clean job
// description text plus provenance metadata.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// Options configures IngestFromURL
type Options struct {
	// UseBrowser re-renders client-side pages whose plain fetch yields too little text.
	UseBrowser bool
	// Markdown keeps headings and bullet lists instead of flattening to text.
	Markdown bool
	// Fetch configures the HTTP request; nil means fetch.DefaultOptions.
	Fetch *fetch.Options
	// Renderer overrides the headless browser used when UseBrowser is set.
	Renderer fetch.Renderer
	Verbose  bool
}

// IngestFromURL fetches a job posting, extracts its main content with
// platform-specific selectors and returns the cleaned text with metadata.
func IngestFromURL(ctx context.Context, urlStr string, opts *Options) (string, *Metadata, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := fetch.ValidateURL(urlStr); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	platform := fetch.DetectPlatform(urlStr)
	logf(opts, "[ingestion] fetching %s (platform %s)", urlStr, platform)

	page, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	logf(opts, "[ingestion] fetched %d bytes of HTML", len(page.HTML))

	content, err := extractContent(page.HTML, platform, opts.Markdown)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	rendered := false
	if opts.UseBrowser && fetch.ShouldUseBrowser(content) {
		logf(opts, "[ingestion] content too short (%d chars < %d), rendering in browser", len(content), fetch.MinContentLength)
		renderer := opts.Renderer
		if renderer == nil {
			browserOpts := fetch.DefaultBrowserOptions()
			browserOpts.Verbose = opts.Verbose
			renderer = fetch.ChromeRenderer(browserOpts)
		}

		if html, renderErr := renderer(ctx, urlStr); renderErr != nil {
			log.Printf("[ingestion] browser rendering failed, keeping HTTP content: %v", renderErr)
		} else if browserContent, extractErr := extractContent(html, platform, opts.Markdown); extractErr != nil {
			log.Printf("[ingestion] browser content extraction failed: %v", extractErr)
		} else {
			content = browserContent
			rendered = true
		}
	}

	cleaned := CleanText(content)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrContentExtractionFailed, urlStr, ErrEmptyContent)
	}
	logf(opts, "[ingestion] cleaned text: %d chars", len(cleaned))

	format := extraction.FormatText
	if opts.Markdown {
		format = extraction.FormatMarkdown
	}
	return cleaned, urlMetadata(urlStr, string(platform), format, rendered, cleaned), nil
}

func extractContent(html string, platform fetch.Platform, markdown bool) (string, error) {
	content := fetch.PlatformContentSelectors(platform)
	noise := fetch.PlatformNoiseSelectors(platform)
	if markdown {
		return fetch.ExtractMainMarkdown(html, content, noise...)
	}
	return fetch.ExtractMainText(html, content, noise...)
}

func logf(opts *Options, format string, args ...any) {
	if opts.Verbose {
		log.Printf(format, args...)
	}
}
