package fetch

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// baseNoise is removed from every page before the main content is located.
const baseNoise = "nav, footer, header, script, style, noscript, iframe, svg, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// JobPostingSelectors returns selectors for job board pages on no known platform.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// mainContent parses html, strips noise and returns the first selection
// matching contentSelectors, or the body when none match.
func mainContent(html string, contentSelectors, noiseSelectors []string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(baseNoise).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return selection.First(), nil
		}
	}
	return doc.Find("body"), nil
}

// ExtractMainText returns the visible text of the page's main content, one
// non-empty trimmed line per line.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	selection, err := mainContent(html, contentSelectors, noiseSelectors)
	if err != nil {
		return "", err
	}
	return compactLines(selection.Text()), nil
}

// ExtractMainMarkdown converts the page's main content to markdown, keeping
// headings and bullet lists that plain text extraction flattens.
func ExtractMainMarkdown(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	selection, err := mainContent(html, contentSelectors, noiseSelectors)
	if err != nil {
		return "", err
	}
	fragment, err := goquery.OuterHtml(selection)
	if err != nil {
		return "", fmt.Errorf("failed to render content HTML: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func compactLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
