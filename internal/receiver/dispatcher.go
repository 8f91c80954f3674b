package receiver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"payupl/internal/messaging"
	"payupl/internal/webhook"
)

const (
	eventTypePrefix  = "payu.order."
	eventTypeUnknown = "payu.notification"
)

//go:generate mockgen -source dispatcher.go -destination mock_dispatcher.go -package receiver

// Notification is a verified PayU notification ready for hand-off.
type Notification struct {
	EventKey   string
	Order      webhook.OrderNotification
	Payload    webhook.Payload
	ReceivedAt time.Time
}

// Dispatcher hands verified notifications to the rest of the system. A
// returned error makes the receiver answer 500 so PayU redelivers.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// LogDispatcher only records notifications in the log.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(l *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: l}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, n Notification) error {
	d.logger.InfoContext(ctx, "PayU notification received",
		slog.String("event_key", n.EventKey),
		slog.String("order_id", n.Order.OrderID),
		slog.String("ext_order_id", n.Order.ExtOrderID),
		slog.String("status", n.Order.Status),
	)
	return nil
}

// PublishDispatcher publishes notifications as envelopes keyed by order id.
type PublishDispatcher struct {
	publisher messaging.Publisher
}

func NewPublishDispatcher(p messaging.Publisher) *PublishDispatcher {
	return &PublishDispatcher{publisher: p}
}

func (d *PublishDispatcher) Dispatch(ctx context.Context, n Notification) error {
	key := n.Order.OrderID
	if key == "" {
		key = n.EventKey
	}

	envelope, err := messaging.NewEnvelope(ctx, key, EventType(n.Order.Status), n.Payload.Data)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}

	if err := d.publisher.Publish(ctx, envelope); err != nil {
		return fmt.Errorf("publish notification %s: %w", n.EventKey, err)
	}
	return nil
}

// EventType maps an order status to the envelope type, e.g. COMPLETED to
// "payu.order.completed".
func EventType(status string) string {
	if status == "" {
		return eventTypeUnknown
	}
	return eventTypePrefix + strings.ToLower(status)
}
