//go:build !integration

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"payupl/pkg/correlation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_InjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Output: &buf})

	ctx := correlation.WithID(context.Background(), "corr-123")
	l.With(slog.String("component", "test")).InfoContext(ctx, "hello")
	l.Info("no context")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "corr-123", lines[0]["correlation_id"])
	assert.Equal(t, "test", lines[0]["component"])
	assert.NotContains(t, lines[1], "correlation_id")
}

func TestNew_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf})

	l.Info("token", slog.String("access_token", "abc"), slog.String("client_secret", "xyz"), slog.String("order_id", "O1"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[REDACTED]", lines[0]["access_token"])
	assert.Equal(t, "[REDACTED]", lines[0]["client_secret"])
	assert.Equal(t, "O1", lines[0]["order_id"])
}

func TestNew_RedactsNotificationBodyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Output: &buf})

	l.Debug("Raw payload", slog.String("body", `{"order":{"buyer":{"email":"jan@example.pl"}}}`))

	assert.NotContains(t, buf.String(), "jan@example.pl")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[REDACTED]", lines[0]["body"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Output: &buf})

	l.Info("dropped")
	l.Warn("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestCorrelationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(CorrelationMiddleware())
	r.GET("/", func(c *gin.Context) {
		seen = correlation.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlation.HeaderName, "given-id")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, "given-id", seen)
		assert.Equal(t, "given-id", w.Header().Get(correlation.HeaderName))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(correlation.HeaderName))
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(Options{Output: &buf}))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := gin.New()
	r.Use(RequestLogger("/health/live"))
	r.POST("/webhooks/payu", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/health/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhooks/payu", strings.NewReader(`{"secret":"body"}`)))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "/webhooks/payu", lines[0]["path"])
	assert.EqualValues(t, 400, lines[0]["status"])
	assert.NotContains(t, buf.String(), "secret")
}
