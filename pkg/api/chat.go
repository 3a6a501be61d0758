package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/chat"
	"github.com/skillsys/hrassist/pkg/logger"
)

// sseWriter writes named server-sent events, flushing after each one
type sseWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSEWriter(w http.ResponseWriter, r *http.Request) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sse := &sseWriter{w: w, rc: http.NewResponseController(w)}
	if err := sse.flush(); err != nil {
		logger.G(r.Context()).WithError(err).Debug("failed to flush event stream headers")
	}
	return sse
}

func (s *sseWriter) flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return errors.Wrap(err, "failed to flush event")
	}
	return nil
}

// Send implements chat.Sink
func (s *sseWriter) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s event", event)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return errors.Wrapf(err, "failed to write %s event", event)
	}
	return s.flush()
}

// handleChat handles POST /api/chat. The reply is an event stream; the turn
// is cancelled when the client disconnects.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.services.Chat == nil {
		s.unavailable(w, r, "chat")
		return
	}

	var body struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}
	if err := s.decodeJSON(w, r, &body); err != nil || strings.TrimSpace(body.Message) == "" {
		s.writeErrorResponse(w, r, http.StatusBadRequest, chat.ErrEmptyMessage.Error(), err)
		return
	}

	sink := newSSEWriter(w, r)
	err := s.services.Chat.Stream(r.Context(), chat.Request{Message: body.Message, SessionID: body.SessionID}, sink)
	if err != nil {
		logger.G(r.Context()).WithError(err).Debug("chat stream ended early")
	}
}
