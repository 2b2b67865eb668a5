package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/types"
)

// fakeTailorer returns canned results; any func left nil succeeds with a default.
type fakeTailorer struct {
	tailor      func(ctx context.Context, resume, jd string) (string, error)
	align       func(ctx context.Context, resume, jd string) (*types.AlignmentReport, error)
	incorporate func(ctx context.Context, resume, jd string, report *types.AlignmentReport) (string, error)

	mu    sync.Mutex
	calls []string
}

func (f *fakeTailorer) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeTailorer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeTailorer) TailorResume(ctx context.Context, resume, jd string) (string, error) {
	f.record("tailor")
	if f.tailor != nil {
		return f.tailor(ctx, resume, jd)
	}
	return "Developed and maintained robust ETL pipelines.", nil
}

func (f *fakeTailorer) CheckAlignment(ctx context.Context, resume, jd string) (*types.AlignmentReport, error) {
	f.record("align")
	if f.align != nil {
		return f.align(ctx, resume, jd)
	}
	return &types.AlignmentReport{
		Score:           70,
		MatchedKeywords: []string{"ETL"},
		MissingKeywords: []string{"Spark"},
		Suggestions:     "Mention Spark.",
	}, nil
}

func (f *fakeTailorer) IncorporateSuggestions(ctx context.Context, resume, jd string, report *types.AlignmentReport) (string, error) {
	f.record("incorporate")
	if f.incorporate != nil {
		return f.incorporate(ctx, resume, jd, report)
	}
	return resume + " Built Spark jobs.", nil
}

// recorder collects every snapshot a session publishes
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) Snapshots() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) Stages() []Stage {
	var stages []Stage
	for _, s := range r.Snapshots() {
		if len(stages) == 0 || stages[len(stages)-1] != s.Stage {
			stages = append(stages, s.Stage)
		}
	}
	return stages
}

func newTestSession(t *testing.T, tailorer Tailorer, opts ...SessionOption) (*Session, *recorder) {
	t.Helper()
	opts = append([]SessionOption{WithPacing(Pacing{})}, opts...)
	s := NewSession("test-session", tailorer, extraction.New(0), opts...)
	rec := &recorder{}
	s.Subscribe(rec.record)
	return s, rec
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
