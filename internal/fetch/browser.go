package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP
// fetch before a page is treated as client-rendered.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is too short to be the
// real posting.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the HTML of a page after client-side rendering.
type Renderer func(ctx context.Context, url string) (string, error)

// BrowserOptions configures headless rendering.
type BrowserOptions struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to render.
	Settle  time.Duration
	Verbose bool
}

// DefaultBrowserOptions returns the rendering defaults.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{Timeout: DefaultTimeout, Settle: 3 * time.Second}
}

// ChromeRenderer returns a Renderer backed by a headless Chrome. Chrome or
// Chromium must be installed.
func ChromeRenderer(opts BrowserOptions) Renderer {
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, opts)
	}
}

// WithBrowser renders url in a headless browser and returns the resulting HTML.
func WithBrowser(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Verbose {
		log.Printf("[fetch] starting headless browser for %s", url)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[fetch] rendered %d bytes of HTML", len(html))
	}
	return html, nil
}
