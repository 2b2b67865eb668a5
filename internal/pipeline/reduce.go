package pipeline

import (
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Event is a state transition applied by Reduce
type Event interface {
	event()
}

// ResumeEdited replaces the resume text. A typed resume has no file name.
type ResumeEdited struct{ Text string }

// JobDescriptionEdited replaces the job description
type JobDescriptionEdited struct{ Text string }

// UploadStarted clears the resume and all results while a file is parsed
type UploadStarted struct{ FileName string }

// UploadSucceeded installs the extracted text as the resume
type UploadSucceeded struct {
	FileName string
	Text     string
}

// UploadFailed publishes an upload error in place of the resume output
type UploadFailed struct{ Message string }

// RunStarted begins a primary run, clearing all downstream results
type RunStarted struct{}

// StageEntered moves a running operation to its next stage
type StageEntered struct{ Stage Stage }

// RunSucceeded publishes the tailored resume and its report together
type RunSucceeded struct {
	Tailored       string
	Report         *types.AlignmentReport
	JobDescription string
}

// RunFailed publishes a primary run error; no report is kept
type RunFailed struct{ Message string }

// ImproveStarted begins an improvement pass
type ImproveStarted struct{}

// ImproveSucceeded publishes the improved resume, its report and the edit script together
type ImproveSucceeded struct {
	Improved string
	Report   *types.AlignmentReport
	Diff     types.EditScript
}

// ImproveFailed publishes an improvement error; primary results stay untouched
type ImproveFailed struct{ Message string }

// ResumeCopied records an export
type ResumeCopied struct{ At time.Time }

func (ResumeEdited) event()         {}
func (JobDescriptionEdited) event() {}
func (UploadStarted) event()        {}
func (UploadSucceeded) event()      {}
func (UploadFailed) event()         {}
func (RunStarted) event()           {}
func (StageEntered) event()         {}
func (RunSucceeded) event()         {}
func (RunFailed) event()            {}
func (ImproveStarted) event()       {}
func (ImproveSucceeded) event()     {}
func (ImproveFailed) event()        {}
func (ResumeCopied) event()         {}

// Reduce returns the state after applying e to s. It has no side effects.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case ResumeEdited:
		s.Resume = e.Text
		s.ResumeFileName = ""

	case JobDescriptionEdited:
		s.JobDescription = e.Text

	case UploadStarted:
		s.Resume = ""
		s.ResumeFileName = ""
		s.UploadingFile = e.FileName
		s.clearResults()
		s.Stage = StageExtracting
		s.Busy = true
		s.Flow = FlowUpload

	case UploadSucceeded:
		s.Resume = e.Text
		s.ResumeFileName = e.FileName
		s.UploadingFile = ""
		s.Stage = StageIdle
		s.Busy = false
		s.Flow = FlowNone

	case UploadFailed:
		s.ResumeFileName = ""
		s.UploadingFile = ""
		s.clearResults()
		s.TailorError = e.Message
		s.Stage = StageError
		s.Busy = false
		s.Flow = FlowNone

	case RunStarted:
		s.clearResults()
		s.Stage = StageAnalyzingResume
		s.Busy = true
		s.Flow = FlowPrimary

	case StageEntered:
		s.Stage = e.Stage

	case RunSucceeded:
		s.Tailored = e.Tailored
		s.TailorError = ""
		s.TailoredFor = e.JobDescription
		s.Report = e.Report
		s.Stage = StageDone
		s.Busy = false
		s.Flow = FlowNone

	case RunFailed:
		s.Tailored = ""
		s.TailorError = e.Message
		s.Report = nil
		s.Stage = StageError
		s.Busy = false
		s.Flow = FlowNone

	case ImproveStarted:
		s.clearImprovement()
		s.Stage = StageImprovingResume
		s.Busy = true
		s.Flow = FlowImprove

	case ImproveSucceeded:
		s.Improved = e.Improved
		s.ImproveError = ""
		s.FinalReport = e.Report
		s.Diff = e.Diff
		s.Stage = StageDone
		s.Busy = false
		s.Flow = FlowNone

	case ImproveFailed:
		s.clearImprovement()
		s.ImproveError = e.Message
		s.Stage = StageError
		s.Busy = false
		s.Flow = FlowNone

	case ResumeCopied:
		s.CopiedAt = e.At
	}
	return s
}

func blank(text string) bool {
	return strings.TrimSpace(text) == ""
}
