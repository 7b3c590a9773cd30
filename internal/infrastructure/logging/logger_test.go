package logging

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewDefaultsToInfo(t *testing.T) {
	logger, err := New(Config{OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, logger.Level())
}

func TestFromLevelFallsBack(t *testing.T) {
	logger := FromLevel("nonsense", false, "stderr")
	require.NotNil(t, logger.Logger)
	assert.Equal(t, zapcore.InfoLevel, logger.Level())

	logger = FromLevel("warn", true, "/nonexistent-dir/console.log")
	require.NotNil(t, logger.Logger)
	assert.Equal(t, zapcore.WarnLevel, logger.Level())

	logger = FromLevel("nonsense", false, "/nonexistent-dir/console.log")
	require.NotNil(t, logger.Logger)
	assert.Equal(t, zapcore.InfoLevel, logger.Level())
}

func TestSetLevel(t *testing.T) {
	logger := FromLevel("info", false, "stderr")

	require.NoError(t, logger.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, logger.Level())
	assert.True(t, logger.Session("sess_1", "Terminal 1").Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, logger.SetLevel("chatty"))
	assert.Equal(t, zapcore.DebugLevel, logger.Level())
}

func TestLevelHandler(t *testing.T) {
	logger := FromLevel("info", false, "stderr")
	h := logger.LevelHandler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/log/level", strings.NewReader(`{"level":"error"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, zapcore.ErrorLevel, logger.Level())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/log/level", nil))
	assert.JSONEq(t, `{"level":"error"}`, w.Body.String())
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	assert.NotNil(t, logger.Session("sess_1", "Terminal 1"))
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
