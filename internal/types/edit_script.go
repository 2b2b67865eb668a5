package types

import "strings"

// SegmentKind marks how a run of text changed between two versions.
type SegmentKind string

// Segment kinds
const (
	SegmentUnchanged SegmentKind = "unchanged"
	SegmentInserted  SegmentKind = "inserted"
	SegmentDeleted   SegmentKind = "deleted"
)

// Segment is one run of an edit script.
type Segment struct {
	Text string      `json:"text"`
	Kind SegmentKind `json:"kind"`
}

// EditScript is an ordered list of segments describing how an original text becomes a revised one.
type EditScript []Segment

// Original rebuilds the original text from unchanged and deleted segments.
func (s EditScript) Original() string {
	var sb strings.Builder
	for _, seg := range s {
		if seg.Kind != SegmentInserted {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// Revised rebuilds the revised text from unchanged and inserted segments.
func (s EditScript) Revised() string {
	var sb strings.Builder
	for _, seg := range s {
		if seg.Kind != SegmentDeleted {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// HasChanges reports whether any segment is an insertion or deletion.
func (s EditScript) HasChanges() bool {
	for _, seg := range s {
		if seg.Kind != SegmentUnchanged {
			return true
		}
	}
	return false
}
