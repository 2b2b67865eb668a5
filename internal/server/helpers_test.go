package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/types"
)

// fakeTailorer returns canned results; any func left nil succeeds with a default.
type fakeTailorer struct {
	tailor      func(ctx context.Context, resume, jd string) (string, error)
	align       func(ctx context.Context, resume, jd string) (*types.AlignmentReport, error)
	incorporate func(ctx context.Context, resume, jd string, report *types.AlignmentReport) (string, error)
}

func (f *fakeTailorer) TailorResume(ctx context.Context, resume, jd string) (string, error) {
	if f.tailor != nil {
		return f.tailor(ctx, resume, jd)
	}
	return "Developed and maintained robust ETL pipelines.", nil
}

func (f *fakeTailorer) CheckAlignment(ctx context.Context, resume, jd string) (*types.AlignmentReport, error) {
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
	if f.incorporate != nil {
		return f.incorporate(ctx, resume, jd, report)
	}
	return resume + " Built Spark jobs.", nil
}

func disabledRateLimit() *ratelimit.Config {
	return &ratelimit.Config{Enabled: false}
}

func newTestServer(t *testing.T, tailorer pipeline.Tailorer, rl *ratelimit.Config) *Server {
	t.Helper()
	if rl == nil {
		rl = disabledRateLimit()
	}
	s, err := New(Config{
		NewSession: func(id string) *pipeline.Session {
			return pipeline.NewSession(id, tailorer, extraction.New(0), pipeline.WithPacing(pipeline.Pacing{}))
		},
		RateLimit: rl,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) SessionView {
	t.Helper()
	var view SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// createSession creates a session and returns its ID
func createSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeView(t, rec).SessionID
}

// readySession creates a session with both inputs filled in
func readySession(t *testing.T, s *Server) string {
	t.Helper()
	id := createSession(t, s)
	rec := doRequest(t, s, http.MethodPut, "/sessions/"+id+"/inputs", map[string]string{
		"resume":          "Moved data between systems.",
		"job_description": "Seeking engineer to build ETL pipelines using Spark.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return id
}
