package webhook

import (
	"context"
	"log/slog"
)

// Sink receives diagnostic events emitted while a notification is processed.
//
//go:generate mockgen -source=sink.go -destination=mock_sink.go -package=webhook
type Sink interface {
	Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
}

// SlogSink forwards events to a slog.Logger.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(l *slog.Logger) *SlogSink {
	if l == nil {
		l = slog.Default()
	}
	return &SlogSink{logger: l.With(slog.String("component", "payu_webhook"))}
}

func (s *SlogSink) Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type nopSink struct{}

func (nopSink) Log(context.Context, slog.Level, string, ...slog.Attr) {}

// safeSink drops panics raised by the wrapped sink.
type safeSink struct {
	inner Sink
}

func (s safeSink) Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	defer func() { _ = recover() }()
	s.inner.Log(ctx, level, msg, attrs...)
}
