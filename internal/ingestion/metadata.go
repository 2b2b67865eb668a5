package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Source kinds recorded in Metadata
const (
	SourceFile = "file"
	SourceURL  = "url"
)

// Metadata describes where an ingested job description came from
type Metadata struct {
	Source    string `json:"source"`
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Platform  string `json:"platform,omitempty"` // job board the URL belongs to
	Format    string `json:"format,omitempty"`   // txt, md, pdf, docx or doc
	Rendered  bool   `json:"rendered,omitempty"` // a headless browser produced the page
	Timestamp string `json:"timestamp"`          // RFC3339
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Chars     int    `json:"chars"`
	Words     int    `json:"words"`
}

func newMetadata(source, content string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Chars:     len([]rune(content)),
		Words:     len(strings.Fields(content)),
	}
}

func fileMetadata(path, format, content string) *Metadata {
	m := newMetadata(SourceFile, content)
	m.Path = path
	m.Format = format
	return m
}

func urlMetadata(url, platform, format string, rendered bool, content string) *Metadata {
	m := newMetadata(SourceURL, content)
	m.URL = url
	m.Platform = platform
	m.Format = format
	m.Rendered = rendered
	return m
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// Matches reports whether content is the text this metadata was computed for
func (m *Metadata) Matches(content string) bool {
	return m.Hash == computeHash(content)
}

// Summary is a one-line description for CLI output
func (m *Metadata) Summary() string {
	origin := m.Path
	if m.Source == SourceURL {
		origin = m.URL
		if m.Platform != "" && m.Platform != "unknown" {
			origin += " (" + m.Platform + ")"
		}
	}
	return fmt.Sprintf("%s, %d words, sha256 %.12s", origin, m.Words, m.Hash)
}

// ToJSON marshals Metadata to indented JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return data, nil
}
