// Package types provides type definitions for structured data used throughout the resume tailoring system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Score bounds for an alignment report.
const (
	MinScore = 0
	MaxScore = 100
)

// ScoreBand is a coarse classification of an alignment score.
type ScoreBand string

// Score bands, matching the thresholds used by the report gauge.
const (
	BandStrong   ScoreBand = "strong"
	BandModerate ScoreBand = "moderate"
	BandWeak     ScoreBand = "weak"
)

// AlignmentReport is the ATS keyword-alignment result for one resume against one job description.
type AlignmentReport struct {
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     string   `json:"suggestions"`
}

// Band returns the score band for the report.
func (r *AlignmentReport) Band() ScoreBand {
	switch {
	case r.Score >= 85:
		return BandStrong
	case r.Score >= 60:
		return BandModerate
	default:
		return BandWeak
	}
}

// InRange reports whether the score lies in [MinScore, MaxScore].
func (r *AlignmentReport) InRange() bool {
	return r.Score >= MinScore && r.Score <= MaxScore
}

// Normalize trims keywords and removes blanks and case-insensitive duplicates,
// keeping the first occurrence of each keyword in its original order.
func (r *AlignmentReport) Normalize() {
	r.MatchedKeywords = dedupeKeywords(r.MatchedKeywords)
	r.MissingKeywords = dedupeKeywords(r.MissingKeywords)
	r.Suggestions = strings.TrimSpace(r.Suggestions)
}

func dedupeKeywords(keywords []string) []string {
	result := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, kw)
	}
	return result
}
