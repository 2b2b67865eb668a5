package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// SSE event names
const (
	EventStage    = "stage"
	EventComplete = "complete"
	EventError    = "error"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteStage sends the stage a run has entered
func (s *SSEWriter) WriteStage(stage pipeline.Stage) error {
	return s.WriteEvent(EventStage, map[string]string{
		"stage":   string(stage),
		"message": stage.Message(),
	})
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string, status int) {
	s.WriteEvent(EventError, map[string]any{ //nolint:errcheck
		"error":  message,
		"status": status,
	})
}

// WriteComplete sends the final session view
func (s *SSEWriter) WriteComplete(view SessionView) {
	s.WriteEvent(EventComplete, view) //nolint:errcheck
}
