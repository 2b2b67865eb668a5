package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/diff"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/types"
)

// SessionView is the JSON representation of a session
type SessionView struct {
	SessionID    string         `json:"session_id"`
	Stage        pipeline.Stage `json:"stage"`
	StageMessage string         `json:"stage_message"`
	Flow         pipeline.Flow  `json:"flow,omitempty"`
	Busy         bool           `json:"busy"`

	Resume         string `json:"resume"`
	ResumeFileName string `json:"resume_file_name,omitempty"`
	UploadingFile  string `json:"uploading_file,omitempty"`
	JobDescription string `json:"job_description"`

	ResumeOutput   string                 `json:"resume_output"`
	ImprovedOutput string                 `json:"improved_output,omitempty"`
	Report         *types.AlignmentReport `json:"report,omitempty"`
	FinalReport    *types.AlignmentReport `json:"final_report,omitempty"`
	Diff           types.EditScript       `json:"diff,omitempty"`
	InsertedChars  int                    `json:"inserted_chars,omitempty"`
	DeletedChars   int                    `json:"deleted_chars,omitempty"`

	FinalResume string `json:"final_resume,omitempty"`
	Copied      bool   `json:"copied"`
	CanTailor   bool   `json:"can_tailor"`
	CanImprove  bool   `json:"can_improve"`
}

// FetchJobResponse is returned after a job description was ingested from a URL
type FetchJobResponse struct {
	Metadata *ingestion.Metadata `json:"metadata"`
	Session  SessionView         `json:"session"`
}

func newSessionView(session *pipeline.Session) SessionView {
	st := session.Snapshot()
	view := SessionView{
		SessionID:      session.ID,
		Stage:          st.Stage,
		StageMessage:   st.Stage.Message(),
		Flow:           st.Flow,
		Busy:           st.Busy,
		Resume:         st.Resume,
		ResumeFileName: st.ResumeFileName,
		UploadingFile:  st.UploadingFile,
		JobDescription: st.JobDescription,
		ResumeOutput:   st.ResumeOutput(),
		ImprovedOutput: st.ImprovedOutput(),
		Report:         st.Report,
		FinalReport:    st.FinalReport,
		Diff:           st.Diff,
		FinalResume:    st.FinalResume(),
		Copied:         session.Copied(),
		CanTailor:      st.CanTailor(),
		CanImprove:     st.CanImprove(),
	}
	view.InsertedChars, view.DeletedChars = diff.Stats(st.Diff)
	return view
}

// session looks up the {id} path value, writing a 404 if it is unknown
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*pipeline.Session, bool) {
	id := r.PathValue("id")
	session, ok := s.sessions.Get(id)
	if !ok {
		s.errorFor(w, &ErrSessionNotFound{SessionID: id})
		return nil, false
	}
	return session, true
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// handleCreateSession starts a new session
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	session := s.sessions.Create()
	s.jsonResponse(w, http.StatusCreated, newSessionView(session))
}

// handleGetSession returns the current state of a session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(session))
}

// handleDeleteSession discards a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.sessions.Delete(id) {
		s.errorFor(w, &ErrSessionNotFound{SessionID: id})
		return
	}
	log.Printf("[sessions] deleted %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateInputs replaces the resume and/or job description text
func (s *Server) handleUpdateInputs(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req types.UpdateInputsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFor(w, err)
		return
	}
	if req.Resume == nil && req.JobDescription == nil {
		s.errorFor(w, &ErrValidation{Field: "body", Message: "resume or job_description is required"})
		return
	}

	if req.Resume != nil {
		if err := session.SetResume(*req.Resume); err != nil {
			s.errorFor(w, err)
			return
		}
	}
	if req.JobDescription != nil {
		if err := session.SetJobDescription(*req.JobDescription); err != nil {
			s.errorFor(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, newSessionView(session))
}

// handleUpload extracts the resume from a multipart "file" field
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorFor(w, err)
			return
		}
		s.errorFor(w, &ErrValidation{Field: "file", Message: "a multipart file field named \"file\" is required"})
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	if err := session.Upload(r.Context(), header.Filename, data); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(session))
}

// handleFetchJobDescription ingests a job posting URL into the job description
func (s *Server) handleFetchJobDescription(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req types.FetchJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFor(w, err)
		return
	}
	if session.Snapshot().Busy {
		s.errorFor(w, pipeline.ErrBusy)
		return
	}

	opts := s.ingestion
	opts.UseBrowser = opts.UseBrowser || req.UseBrowser
	text, meta, err := ingestion.IngestFromURL(r.Context(), req.URL, &opts)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	if err := session.SetJobDescription(text); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, FetchJobResponse{Metadata: meta, Session: newSessionView(session)})
}

// handleTailor runs the primary flow and returns the resulting session
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, (*pipeline.Session).Tailor)
}

// handleImprove runs the improvement pass and returns the resulting session
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, (*pipeline.Session).Improve)
}

// handleTailorStream runs the primary flow, streaming stages via SSE
func (s *Server) handleTailorStream(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, tailorPrecheck, (*pipeline.Session).Tailor)
}

// handleImproveStream runs the improvement pass, streaming stages via SSE
func (s *Server) handleImproveStream(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, improvePrecheck, (*pipeline.Session).Improve)
}

// handleExport returns the final resume as plain text
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	text, err := session.Export()
	if err != nil {
		s.errorFor(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		log.Printf("[server] error writing export: %v", err)
	}
}

type runFunc func(*pipeline.Session, context.Context) error

func (s *Server) run(w http.ResponseWriter, r *http.Request, run runFunc) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := run(session, r.Context()); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(session))
}

func tailorPrecheck(st pipeline.State) error {
	if st.Busy {
		return pipeline.ErrBusy
	}
	if !st.CanTailor() {
		return pipeline.ErrMissingInput
	}
	return nil
}

func improvePrecheck(st pipeline.State) error {
	if st.Busy {
		return pipeline.ErrBusy
	}
	if !st.CanImprove() {
		return pipeline.ErrNothingToImprove
	}
	return nil
}

// stream runs an operation on its own goroutine and forwards every stage the
// session enters as an SSE event, finishing with a complete or error event.
// Errors found before the run starts are answered as plain JSON.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, precheck func(pipeline.State) error, run runFunc) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := precheck(session.Snapshot()); err != nil {
		s.errorFor(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	updates := make(chan pipeline.State, 32)
	unsubscribe := session.Subscribe(func(st pipeline.State) {
		select {
		case updates <- st:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		done <- run(session, r.Context())
	}()

	var last pipeline.Stage
	forward := func(st pipeline.State) {
		if st.Stage == last {
			return
		}
		last = st.Stage
		if err := sse.WriteStage(st.Stage); err != nil {
			log.Printf("[server] error writing SSE event: %v", err)
		}
	}

	for {
		select {
		case st := <-updates:
			forward(st)
		case err := <-done:
			for len(updates) > 0 {
				forward(<-updates)
			}
			if err != nil {
				sse.WriteError(err.Error(), HTTPStatus(err))
				return
			}
			sse.WriteComplete(newSessionView(session))
			return
		}
	}
}
