package poller

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StreamWriter writes server-sent events to one viewer.
type StreamWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func NewStreamWriter(w http.ResponseWriter) *StreamWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return &StreamWriter{w: w, rc: http.NewResponseController(w)}
}

// Send writes ev as a single event frame and flushes it.
func (s *StreamWriter) Send(ev Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Name, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
		return err
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("flush %s event: %w", ev.Name, err)
	}
	return nil
}
