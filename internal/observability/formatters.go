// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/diff"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Diff markers used when the terminal has no color
const (
	InsertOpen  = "{+"
	InsertClose = "+}"
	DeleteOpen  = "[-"
	DeleteClose = "-]"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31;9m"
	ansiReset = "\x1b[0m"
)

// Printer handles formatted output for the CLI
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithColor enables ANSI colors for diff output
func (p *Printer) WithColor(enabled bool) *Printer {
	p.color = enabled
	return p
}

// printBox prints a formatted box with a title and content. Long lines are
// wrapped at word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStage prints a one-line progress update.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStage(stage, message string) {
	fmt.Fprintf(p.out, "→ %-22s %s\n", stage, message)
}

// PrintAlignmentReport outputs the score, keyword lists and suggestions of a report.
func (p *Printer) PrintAlignmentReport(title string, report *types.AlignmentReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d/100 (%s)\n", report.Score, report.Band()))
	sb.WriteString(fmt.Sprintf("Gauge:    %s\n", gauge(report.Score, 30)))
	sb.WriteString("\n")
	writeKeywords(&sb, "Matched Keywords:", "✓", report.MatchedKeywords)
	writeKeywords(&sb, "Missing Keywords:", "✗", report.MissingKeywords)
	if report.Suggestions != "" {
		sb.WriteString("Suggestions:\n")
		sb.WriteString(report.Suggestions)
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func writeKeywords(sb *strings.Builder, heading, mark string, keywords []string) {
	if len(keywords) == 0 {
		return
	}
	sb.WriteString(heading + "\n")
	count := min(len(keywords), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %s %s\n", mark, keywords[i]))
	}
	if len(keywords) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(keywords)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintScoreChange outputs the score movement of an improvement pass.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintScoreChange(before, after *types.AlignmentReport) {
	if before == nil || after == nil {
		return
	}
	delta := after.Score - before.Score
	fmt.Fprintf(p.out, "Score: %d → %d (%+d)\n", before.Score, after.Score, delta)
}

// PrintDiff writes the revised text with insertions and deletions marked,
// followed by a change summary.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDiff(script types.EditScript) {
	if !script.HasChanges() {
		fmt.Fprintln(p.out, "No changes.")
		return
	}

	fmt.Fprintln(p.out, p.FormatDiff(script))
	inserted, deleted := diff.Stats(script)
	fmt.Fprintf(p.out, "\n%d characters added, %d removed\n", inserted, deleted)
}

// FormatDiff renders an edit script inline
func (p *Printer) FormatDiff(script types.EditScript) string {
	var sb strings.Builder
	for _, seg := range script {
		switch seg.Kind {
		case types.SegmentInserted:
			if p.color {
				sb.WriteString(ansiGreen + seg.Text + ansiReset)
			} else {
				sb.WriteString(InsertOpen + seg.Text + InsertClose)
			}
		case types.SegmentDeleted:
			if p.color {
				sb.WriteString(ansiRed + seg.Text + ansiReset)
			} else {
				sb.WriteString(DeleteOpen + seg.Text + DeleteClose)
			}
		default:
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// gauge draws score as a bar of the given width
func gauge(score, width int) string {
	score = max(types.MinScore, min(types.MaxScore, score))
	filled := score * width / types.MaxScore
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap splits line into chunks of at most width runes, breaking at spaces
// where possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var lines []string
	var current []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
