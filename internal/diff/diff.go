// Package diff computes character-level edit scripts between two resume versions.
package diff

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ComputeEditScript returns the character-level edit script turning original into revised.
// The result is deterministic for a given pair of inputs, adjacent segments never share
// a kind, and both inputs can be rebuilt through EditScript.Original and EditScript.Revised.
func ComputeEditScript(original, revised string) types.EditScript {
	dmp := diffmatchpatch.New()
	// No deadline: a timed-out diff depends on machine speed.
	dmp.DiffTimeout = 0

	diffs := dmp.DiffMain(original, revised, false)

	script := make(types.EditScript, 0, len(diffs))
	for _, d := range diffs {
		script = appendSegment(script, types.Segment{Text: d.Text, Kind: kindOf(d.Type)})
	}
	return script
}

// Stats counts inserted and deleted runes in a script.
func Stats(script types.EditScript) (inserted, deleted int) {
	for _, seg := range script {
		switch seg.Kind {
		case types.SegmentInserted:
			inserted += utf8.RuneCountInString(seg.Text)
		case types.SegmentDeleted:
			deleted += utf8.RuneCountInString(seg.Text)
		}
	}
	return inserted, deleted
}

func kindOf(op diffmatchpatch.Operation) types.SegmentKind {
	switch op {
	case diffmatchpatch.DiffInsert:
		return types.SegmentInserted
	case diffmatchpatch.DiffDelete:
		return types.SegmentDeleted
	default:
		return types.SegmentUnchanged
	}
}

// appendSegment drops empty runs and merges a run into the previous one when the kinds match.
func appendSegment(script types.EditScript, seg types.Segment) types.EditScript {
	if seg.Text == "" {
		return script
	}
	if n := len(script); n > 0 && script[n-1].Kind == seg.Kind {
		script[n-1].Text += seg.Text
		return script
	}
	return append(script, seg)
}
