package api

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsys/hrassist/pkg/chat"
	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/skills"
)

// fakeChat plays a fixed event script. If gate is set it blocks after the
// first event until gate is closed or the request is cancelled.
type fakeChat struct {
	requests []chat.Request
	gate     chan struct{}
	ctxErr   chan error
}

func (c *fakeChat) Stream(ctx context.Context, req chat.Request, sink chat.Sink) error {
	c.requests = append(c.requests, req)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "new-session"
	}

	if err := sink.Send(chat.EventSession, map[string]string{"sessionId": sessionID}); err != nil {
		return err
	}
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			c.ctxErr <- ctx.Err()
			return ctx.Err()
		}
	}
	if err := sink.Send(chat.EventMessage, map[string]string{"text": "Hi"}); err != nil {
		return err
	}
	if err := sink.Send(chat.EventResult, map[string]string{"text": "Hi", "sessionId": sessionID}); err != nil {
		return err
	}
	return sink.Send(chat.EventDone, struct{}{})
}

func newChatServer(t *testing.T, c *fakeChat) *Server {
	t.Helper()
	svc, err := skills.NewService(t.TempDir())
	require.NoError(t, err)
	return newTestServer(t, Services{Skills: svc, Chat: c})
}

func TestChat_EventStream(t *testing.T) {
	c := &fakeChat{}
	s := newChatServer(t, c)

	w := do(t, s, "POST", "/api/chat", `{"message":"hello","sessionId":"abc"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "event: session\ndata: {\"sessionId\":\"abc\"}\n\n"+
		"event: message\ndata: {\"text\":\"Hi\"}\n\n"+
		"event: result\ndata: {\"sessionId\":\"abc\",\"text\":\"Hi\"}\n\n"+
		"event: done\ndata: {}\n\n", w.Body.String())
	assert.Equal(t, []chat.Request{{Message: "hello", SessionID: "abc"}}, c.requests)
}

func TestChat_RejectsBlankMessage(t *testing.T) {
	for _, body := range []string{`{"message":"   "}`, `{}`, `{"message":7}`, `[`} {
		t.Run(body, func(t *testing.T) {
			c := &fakeChat{}
			s := newChatServer(t, c)

			w := do(t, s, "POST", "/api/chat", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "message is required", errorMessage(t, w))
			assert.Empty(t, c.requests)
		})
	}
}

func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			return b.String()
		}
		b.WriteString(line)
	}
}

func TestChat_FlushesAndCancelsOnDisconnect(t *testing.T) {
	c := &fakeChat{gate: make(chan struct{}), ctxErr: make(chan error, 1)}
	s := newChatServer(t, c)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, "POST", srv.URL+"/api/chat", strings.NewReader(`{"message":"hi"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	event := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "event: session\ndata: {\"sessionId\":\"new-session\"}\n", event)

	cancel()
	assert.ErrorIs(t, <-c.ctxErr, context.Canceled)
	_, _ = io.Copy(io.Discard, resp.Body)
}

// brokenFlusher is a ResponseWriter whose flushes fail
type brokenFlusher struct {
	*httptest.ResponseRecorder
}

func (brokenFlusher) FlushError() error { return errors.New("connection reset") }

func TestSSEWriter_LogsHeaderFlushFailure(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	ctx := logger.WithLogger(context.Background(), logrus.NewEntry(l))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil).WithContext(ctx)
	w := brokenFlusher{httptest.NewRecorder()}

	sse := newSSEWriter(w, req)
	assert.Contains(t, buf.String(), "failed to flush event stream headers")
	assert.Contains(t, buf.String(), "connection reset")

	err := sse.Send(chat.EventDone, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to flush event")
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}
