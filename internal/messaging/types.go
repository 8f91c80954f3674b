// Package messaging defines the envelope verified notifications travel in
// and the port that publishes them.
package messaging

import (
	"context"
	"time"

	"payupl/pkg/correlation"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

//go:generate mockgen -source types.go -destination mock_publisher.go -package messaging

// Envelope carries one notification. Key is the partitioning key (the PayU
// order id), so every status change of an order lands on one partition.
type Envelope struct {
	EventID       string          `json:"event_id"`
	Key           string          `json:"key"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewEnvelope encodes payload and stamps a fresh event id. The correlation
// id of the inbound request, if ctx has one, is copied over.
func NewEnvelope(ctx context.Context, key, msgType string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		EventID:       uuid.NewString(),
		Key:           key,
		Type:          msgType,
		CorrelationID: correlation.FromContext(ctx),
		Payload:       data,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// Publisher hands envelopes to a broker. Publish returns only after the
// broker acknowledged the write.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
	Close() error
}
