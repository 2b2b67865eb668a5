package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/diff"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Tailorer is the model-backed half of a session
type Tailorer interface {
	TailorResume(ctx context.Context, resume, jobDescription string) (string, error)
	CheckAlignment(ctx context.Context, resume, jobDescription string) (*types.AlignmentReport, error)
	IncorporateSuggestions(ctx context.Context, resume, jobDescription string, report *types.AlignmentReport) (string, error)
}

// Extractor turns an uploaded file into resume text
type Extractor interface {
	Extract(ctx context.Context, data []byte, fileName string) (*extraction.Result, error)
}

// Subscriber receives a snapshot after every transition
type Subscriber func(State)

// Session owns the state of one tailoring session. One operation runs at a
// time; starting another while busy returns ErrBusy.
type Session struct {
	ID string

	tailorer  Tailorer
	extractor Extractor
	pacing    Pacing
	now       func() time.Time

	mu         sync.Mutex
	state      State
	lastActive time.Time
	subs       map[int]Subscriber
	nextSub    int
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithPacing sets the presentational delays of the primary run
func WithPacing(p Pacing) SessionOption {
	return func(s *Session) {
		s.pacing = p
	}
}

// WithClock sets the time source used for exports and idle tracking
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates an idle session
func NewSession(id string, tailorer Tailorer, extractor Extractor, opts ...SessionOption) *Session {
	s := &Session{
		ID:        id,
		tailorer:  tailorer,
		extractor: extractor,
		pacing:    DefaultPacing(),
		now:       time.Now,
		state:     State{Stage: StageIdle},
		subs:      make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastActive = s.now()
	return s
}

// Snapshot returns the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastActive returns when the session was last used
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Touch marks the session as used without changing its state
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// Subscribe registers fn to be called with a snapshot after every
// transition. The returned function removes the subscription.
func (s *Session) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// apply runs guard against the current state and, if it passes, applies e
// and notifies subscribers. guard may be nil.
func (s *Session) apply(guard func(State) error, e Event) (State, error) {
	s.mu.Lock()
	if guard != nil {
		if err := guard(s.state); err != nil {
			s.mu.Unlock()
			return State{}, err
		}
	}
	s.state = Reduce(s.state, e)
	s.lastActive = s.now()
	snapshot := s.state
	subs := make([]Subscriber, 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return snapshot, nil
}

func (s *Session) dispatch(e Event) State {
	state, _ := s.apply(nil, e)
	return state
}

func notBusy(st State) error {
	if st.Busy {
		return ErrBusy
	}
	return nil
}

// SetResume replaces the resume text
func (s *Session) SetResume(text string) error {
	_, err := s.apply(notBusy, ResumeEdited{Text: text})
	return err
}

// SetJobDescription replaces the job description
func (s *Session) SetJobDescription(text string) error {
	_, err := s.apply(notBusy, JobDescriptionEdited{Text: text})
	return err
}

// Upload extracts the text of a resume file and installs it as the resume.
// A file with an unsupported extension is rejected before the current resume
// is cleared; the error is still published as the resume output.
func (s *Session) Upload(ctx context.Context, fileName string, data []byte) error {
	if !extraction.Supported(fileName) {
		err := &extraction.UnsupportedFileTypeError{Extension: extraction.Extension(fileName)}
		if _, guardErr := s.apply(notBusy, UploadFailed{Message: uploadErrorMessage(err)}); guardErr != nil {
			return guardErr
		}
		log.Printf("[pipeline] session %s: rejected upload %q: %v", s.ID, fileName, err)
		return err
	}

	if _, err := s.apply(notBusy, UploadStarted{FileName: fileName}); err != nil {
		return err
	}

	result, err := s.extractor.Extract(ctx, data, fileName)
	if err != nil {
		log.Printf("[pipeline] session %s: extraction of %q failed: %v", s.ID, fileName, err)
		s.dispatch(UploadFailed{Message: uploadErrorMessage(err)})
		return err
	}

	log.Printf("[pipeline] session %s: extracted %d characters from %q", s.ID, len(result.Text), fileName)
	s.dispatch(UploadSucceeded{FileName: fileName, Text: result.Text})
	return nil
}

// Tailor runs the primary flow: tailor the resume to the job description,
// check its alignment and publish both together. Blank inputs return
// ErrMissingInput without changing state. A failed run publishes its error in
// place of the resume and returns it.
func (s *Session) Tailor(ctx context.Context) error {
	var resume, jobDescription string
	_, err := s.apply(func(st State) error {
		if st.Busy {
			return ErrBusy
		}
		if blank(st.Resume) || blank(st.JobDescription) {
			return ErrMissingInput
		}
		resume, jobDescription = st.Resume, st.JobDescription
		return nil
	}, RunStarted{})
	if err != nil {
		return err
	}

	log.Printf("[pipeline] session %s: primary run started", s.ID)
	tailored, report, err := s.runPrimary(ctx, resume, jobDescription)
	if err != nil {
		log.Printf("[pipeline] session %s: primary run failed: %v", s.ID, err)
		s.dispatch(RunFailed{Message: runErrorMessage(err)})
		return err
	}

	s.dispatch(RunSucceeded{Tailored: tailored, Report: report, JobDescription: jobDescription})
	log.Printf("[pipeline] session %s: primary run done (score %d)", s.ID, report.Score)
	return nil
}

func (s *Session) runPrimary(ctx context.Context, resume, jobDescription string) (string, *types.AlignmentReport, error) {
	if err := pause(ctx, s.pacing.AnalyzeResume); err != nil {
		return "", nil, err
	}

	s.dispatch(StageEntered{Stage: StageAnalyzingJob})
	if err := pause(ctx, s.pacing.AnalyzeJob); err != nil {
		return "", nil, err
	}

	s.dispatch(StageEntered{Stage: StageTailoringExperience})
	tailored, err := s.tailorer.TailorResume(ctx, resume, jobDescription)
	if err != nil {
		return "", nil, err
	}

	s.dispatch(StageEntered{Stage: StageCheckingATS})
	report, err := s.tailorer.CheckAlignment(ctx, tailored, jobDescription)
	if err != nil {
		return "", nil, err
	}

	if err := pause(ctx, s.pacing.BeforeAssemble); err != nil {
		return "", nil, err
	}
	s.dispatch(StageEntered{Stage: StageAssembling})
	if err := pause(ctx, s.pacing.Assemble); err != nil {
		return "", nil, err
	}

	return tailored, report, nil
}

// Improve runs the secondary flow: weave the report's missing keywords and
// suggestions into the tailored resume, re-check alignment and diff the two
// versions. Results are published together; a failure leaves the primary
// results untouched.
func (s *Session) Improve(ctx context.Context) error {
	var tailored, jobDescription string
	var report *types.AlignmentReport
	_, err := s.apply(func(st State) error {
		if st.Busy {
			return ErrBusy
		}
		if st.Tailored == "" || st.Report == nil {
			return ErrNothingToImprove
		}
		tailored, report = st.Tailored, st.Report
		jobDescription = st.TailoredFor
		if jobDescription == "" {
			jobDescription = st.JobDescription
		}
		return nil
	}, ImproveStarted{})
	if err != nil {
		return err
	}

	log.Printf("[pipeline] session %s: improvement pass started", s.ID)
	improved, finalReport, script, err := s.runImprove(ctx, tailored, jobDescription, report)
	if err != nil {
		log.Printf("[pipeline] session %s: improvement pass failed: %v", s.ID, err)
		s.dispatch(ImproveFailed{Message: improveErrorMessage(err)})
		return err
	}

	s.dispatch(ImproveSucceeded{Improved: improved, Report: finalReport, Diff: script})
	inserted, deleted := diff.Stats(script)
	log.Printf("[pipeline] session %s: improvement pass done (score %d -> %d, +%d/-%d chars)",
		s.ID, report.Score, finalReport.Score, inserted, deleted)
	return nil
}

func (s *Session) runImprove(ctx context.Context, tailored, jobDescription string, report *types.AlignmentReport) (string, *types.AlignmentReport, types.EditScript, error) {
	improved, err := s.tailorer.IncorporateSuggestions(ctx, tailored, jobDescription, report)
	if err != nil {
		return "", nil, nil, err
	}

	var (
		finalReport *types.AlignmentReport
		script      types.EditScript
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.tailorer.CheckAlignment(gCtx, improved, jobDescription)
		if err != nil {
			return err
		}
		finalReport = r
		return nil
	})
	g.Go(func() error {
		script = diff.ComputeEditScript(tailored, improved)
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", nil, nil, err
	}

	return improved, finalReport, script, nil
}

// Export returns the final resume (improved if present, else tailored) and
// records the copy so Copied reports true for CopyAckDuration.
func (s *Session) Export() (string, error) {
	var text string
	_, err := s.apply(func(st State) error {
		text = st.FinalResume()
		if text == "" {
			return ErrNothingToExport
		}
		return nil
	}, ResumeCopied{At: s.now()})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Copied reports whether the final resume was exported within CopyAckDuration
func (s *Session) Copied() bool {
	return s.Snapshot().Copied(s.now())
}
