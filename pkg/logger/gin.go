package logger

import (
	"log/slog"
	"time"

	"payupl/pkg/correlation"

	"github.com/gin-gonic/gin"
)

// CorrelationMiddleware takes X-Correlation-ID from the request, or generates
// one, and echoes it on the response. PayU does not send the header, so
// notifications normally get a fresh id.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(correlation.HeaderName); id != "" {
			ctx = correlation.WithID(ctx, id)
		}

		ctx, corrID := correlation.Ensure(ctx)
		c.Request = c.Request.WithContext(ctx)

		c.Header(correlation.HeaderName, corrID)

		c.Next()
	}
}

// RequestLogger logs one line per request through the default slog logger,
// except for skipPaths. Bodies are not logged: webhook bodies carry buyer data.
func RequestLogger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		slog.LogAttrs(c.Request.Context(), level, "HTTP Request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.String("remote_ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
