package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/diff"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintAlignmentReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAlignmentReport("ATS ALIGNMENT", &types.AlignmentReport{
		Score:           72,
		MatchedKeywords: []string{"ETL", "Python"},
		MissingKeywords: []string{"Spark"},
		Suggestions:     "Mention Spark in the data platform bullet.",
	})
	output := buf.String()

	assert.Contains(t, output, "ATS ALIGNMENT")
	assert.Contains(t, output, "72/100 (moderate)")
	assert.Contains(t, output, "✓ ETL")
	assert.Contains(t, output, "✓ Python")
	assert.Contains(t, output, "✗ Spark")
	assert.Contains(t, output, "Mention Spark")
}

func TestPrintAlignmentReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAlignmentReport("ATS ALIGNMENT", nil)
	assert.Empty(t, buf.String())
}

func TestPrintAlignmentReport_TruncatesKeywordLists(t *testing.T) {
	var buf bytes.Buffer
	keywords := make([]string, maxItemsToShow+3)
	for i := range keywords {
		keywords[i] = "kw" + strings.Repeat("x", i)
	}

	NewPrinter(&buf).PrintAlignmentReport("REPORT", &types.AlignmentReport{Score: 10, MissingKeywords: keywords})

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintBox_LinesHaveFixedWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("word ", 30)+"\n"+strings.Repeat("é", 80))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"one two", "three four"}, wrap("one two three four", 10))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrap("abcdefghij", 4))
	assert.Equal(t, []string{""}, wrap("", 4))
}

func TestGauge(t *testing.T) {
	assert.Equal(t, "[░░░░░░░░░░]", gauge(0, 10))
	assert.Equal(t, "[█████░░░░░]", gauge(50, 10))
	assert.Equal(t, "[██████████]", gauge(100, 10))
	assert.Equal(t, "[██████████]", gauge(150, 10))
}

func TestPrintScoreChange(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScoreChange(&types.AlignmentReport{Score: 60}, &types.AlignmentReport{Score: 85})
	p.PrintScoreChange(&types.AlignmentReport{Score: 60}, nil)

	assert.Equal(t, "Score: 60 → 85 (+25)\n", buf.String())
}

func TestFormatDiff(t *testing.T) {
	script := diff.ComputeEditScript("A. B.", "A. C. B.")

	plain := NewPrinter(nil).FormatDiff(script)
	assert.Contains(t, plain, InsertOpen)
	assert.Equal(t, "A. C. B.", strings.NewReplacer(InsertOpen, "", InsertClose, "").Replace(plain))

	colored := NewPrinter(nil).WithColor(true).FormatDiff(script)
	assert.Contains(t, colored, ansiGreen)
	assert.NotContains(t, colored, InsertOpen)
}

func TestPrintDiff(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDiff(types.EditScript{
		{Text: "keep ", Kind: types.SegmentUnchanged},
		{Text: "old", Kind: types.SegmentDeleted},
		{Text: "new!", Kind: types.SegmentInserted},
	})

	assert.Contains(t, buf.String(), "keep [-old-]{+new!+}")
	assert.Contains(t, buf.String(), "4 characters added, 3 removed")
}

func TestPrintDiff_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDiff(types.EditScript{{Text: "same", Kind: types.SegmentUnchanged}})
	assert.Equal(t, "No changes.\n", buf.String())
}

func TestPrintStage(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStage("checking_ats", "Checking ATS alignment...")
	assert.Contains(t, buf.String(), "checking_ats")
	assert.Contains(t, buf.String(), "Checking ATS alignment...")
}
