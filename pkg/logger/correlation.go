package logger

import (
	"context"
	"log/slog"

	"payupl/pkg/correlation"
)

const correlationKey = "correlation_id"

// contextHandler injects the request correlation ID carried by ctx into
// every record.
type contextHandler struct {
	inner slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := correlation.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String(correlationKey, id))
	}
	return h.inner.Handle(ctx, r)
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{inner: h.inner.WithGroup(name)}
}
