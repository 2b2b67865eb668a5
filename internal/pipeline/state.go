package pipeline

import (
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// CopyAckDuration is how long an export is acknowledged as copied
const CopyAckDuration = 2 * time.Second

// State is everything a session shows. Values are replaced by Reduce, never
// mutated in place, so a State handed to a subscriber stays valid.
type State struct {
	Stage Stage `json:"stage"`

	Resume         string `json:"resume"`
	ResumeFileName string `json:"resume_file_name,omitempty"`
	UploadingFile  string `json:"uploading_file,omitempty"`
	JobDescription string `json:"job_description"`

	// Primary run output and the job description it was tailored for
	Tailored    string                 `json:"tailored,omitempty"`
	TailorError string                 `json:"tailor_error,omitempty"`
	TailoredFor string                 `json:"-"`
	Report      *types.AlignmentReport `json:"report,omitempty"`

	// Improvement pass output
	Improved     string                 `json:"improved,omitempty"`
	ImproveError string                 `json:"improve_error,omitempty"`
	FinalReport  *types.AlignmentReport `json:"final_report,omitempty"`
	Diff         types.EditScript       `json:"diff,omitempty"`

	Busy     bool      `json:"busy"`
	Flow     Flow      `json:"flow,omitempty"`
	CopiedAt time.Time `json:"-"`
}

// ResumeOutput is the text shown in the resume output panel: the tailored
// resume, or the message of a failed upload or run.
func (s State) ResumeOutput() string {
	if s.TailorError != "" {
		return s.TailorError
	}
	return s.Tailored
}

// ImprovedOutput is the improved resume, or the message of a failed improvement pass.
func (s State) ImprovedOutput() string {
	if s.ImproveError != "" {
		return s.ImproveError
	}
	return s.Improved
}

// FinalResume is the resume a user would copy: the improved version when
// present, else the tailored one. Error messages are never returned.
func (s State) FinalResume() string {
	if s.Improved != "" {
		return s.Improved
	}
	return s.Tailored
}

// CurrentReport is the report matching FinalResume
func (s State) CurrentReport() *types.AlignmentReport {
	if s.FinalReport != nil {
		return s.FinalReport
	}
	return s.Report
}

// CanTailor reports whether a primary run may start
func (s State) CanTailor() bool {
	return !s.Busy && !blank(s.Resume) && !blank(s.JobDescription)
}

// CanImprove reports whether an improvement pass may start
func (s State) CanImprove() bool {
	return !s.Busy && s.Tailored != "" && s.Report != nil
}

// Copied reports whether an export happened within CopyAckDuration of now
func (s State) Copied(now time.Time) bool {
	if s.CopiedAt.IsZero() {
		return false
	}
	elapsed := now.Sub(s.CopiedAt)
	return elapsed >= 0 && elapsed < CopyAckDuration
}

// clearResults drops every output of previous runs
func (s *State) clearResults() {
	s.Tailored = ""
	s.TailorError = ""
	s.TailoredFor = ""
	s.Report = nil
	s.clearImprovement()
	s.CopiedAt = time.Time{}
}

func (s *State) clearImprovement() {
	s.Improved = ""
	s.ImproveError = ""
	s.FinalReport = nil
	s.Diff = nil
}
