package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/config"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/tracing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	cfg.Console.Welcome = false
	cfg.Console.ToolLatency = config.Duration(10 * time.Millisecond)

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewServerNilConfig(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestServerStartsWithOneSession(t *testing.T) {
	srv := newTestServer(t)

	sessions := srv.Console().Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Active)
	assert.Equal(t, "0.0.0.0:8000", srv.Addr())
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := get(t, h, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, w.Header().Get(tracing.TraceHeader))

	w = get(t, h, "/services")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"terminal"`)
	assert.Contains(t, w.Body.String(), `"catalog"`)

	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "opsconsole_sessions_open 1")
	assert.Contains(t, w.Body.String(), "opsconsole_http_requests_total")
}

func TestServerLogLevel(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/log/level", strings.NewReader(`{"level":"debug"}`))
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = get(t, srv.Handler(), "/log/level")
	assert.JSONEq(t, `{"level":"debug"}`, w.Body.String())
}

func TestServerStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"sessions"`)
}

func TestShutdownWithoutRun(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, srv.Shutdown(ctx))
	assert.Empty(t, srv.Console().Sessions())
}
