// Package webhook authenticates and parses PayU (OpenPayU) notifications.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SignatureHeaderName is the header PayU signs notifications with.
const SignatureHeaderName = "OpenPayU-Signature"

// Processor verifies notification signatures with a shared second key and
// parses the JSON body. It holds no per-request state and is safe for
// concurrent use.
type Processor struct {
	secret string
	header string
	sink   Sink
}

type Option func(*Processor)

// WithSink routes diagnostic events to s. Events are dropped when unset.
func WithSink(s Sink) Option {
	return func(p *Processor) {
		if s != nil {
			p.sink = safeSink{inner: s}
		}
	}
}

// WithSignatureHeader overrides the header the signature is read from.
func WithSignatureHeader(name string) Option {
	return func(p *Processor) {
		if name != "" {
			p.header = name
		}
	}
}

func NewProcessor(secret string, opts ...Option) (*Processor, error) {
	if secret == "" {
		return nil, ErrConfiguration
	}
	p := &Processor{
		secret: secret,
		header: SignatureHeaderName,
		sink:   nopSink{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ValidateAndParse verifies the signature and parses the body. Every
// per-request failure is reported through the Result, never as a panic.
func (p *Processor) ValidateAndParse(ctx context.Context, req Request) Result[Payload] {
	p.sink.Log(ctx, slog.LevelInfo, "PayU webhook validation started")

	if _, err := p.VerifySignature(ctx, req); err != nil {
		p.logFailure(ctx, err)
		return failureFrom[Payload](err)
	}

	payload, err := p.ParsePayload(ctx, req)
	if err != nil {
		p.logFailure(ctx, err)
		return failureFrom[Payload](err)
	}

	return Success(payload)
}

// VerifySignature returns true when the signature matches, otherwise an
// error wrapping one of ErrMissingSignature, ErrMalformedHeader,
// ErrUnsupportedAlgorithm or ErrSignatureMismatch.
func (p *Processor) VerifySignature(ctx context.Context, req Request) (bool, error) {
	body, err := req.Body()
	if err != nil {
		return false, err
	}

	header := req.Header(p.header)
	if header != "" {
		p.sink.Log(ctx, slog.LevelInfo, "Signature header received", slog.String("header", header))
	}

	v := Verify(p.secret, body, header)
	if v.Algorithm != "" && v.Received != "" {
		p.sink.Log(ctx, slog.LevelDebug, "Signature comparison",
			slog.String("algorithm", v.Algorithm),
			slog.String("incoming_signature", v.Received),
			slog.Any("expected_signatures", v.Expected),
			slog.Bool("match", v.Verified()),
		)
	}
	if !v.Verified() {
		return false, v.Err
	}

	p.sink.Log(ctx, slog.LevelInfo, "Signature verification passed", slog.String("algorithm", v.Algorithm))
	return true, nil
}

// ParsePayload parses the body without checking the signature, for callers
// that verify separately.
func (p *Processor) ParsePayload(ctx context.Context, req Request) (Payload, error) {
	body, err := req.Body()
	if err != nil {
		return Payload{}, err
	}
	p.sink.Log(ctx, slog.LevelDebug, "Raw payload", slog.String("body", string(body)))

	payload, err := parsePayload(body)
	if err != nil {
		return Payload{}, err
	}

	o := payload.Order()
	attrs := []slog.Attr{
		slog.String("order_id", o.OrderID),
		slog.String("status", o.Status),
	}
	if o.TotalAmount != "" {
		attrs = append(attrs, slog.String("amount", fmt.Sprintf("%s %s", FormatMinorUnits(o.TotalAmount), o.CurrencyCode)))
	}
	p.sink.Log(ctx, slog.LevelInfo, "Payload parsed successfully", attrs...)

	return payload, nil
}

func (p *Processor) logFailure(ctx context.Context, err error) {
	p.sink.Log(ctx, slog.LevelError, "PayU webhook validation failed",
		slog.String("kind", FailureKind(err)), slog.String("error", err.Error()))
}

// FailureKind classifies err into the label used for metrics.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "verified"
	case errors.Is(err, ErrMissingSignature):
		return "missing_signature"
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, ErrPayloadParse):
		return "payload_parse"
	default:
		return "error"
	}
}
