package receiver

import (
	"context"
	"fmt"
	"log/slog"

	"payupl/internal/payu"
	"payupl/internal/webhook"
)

// Capturer captures an order held in WAITING_FOR_CONFIRMATION.
type Capturer interface {
	CaptureOrder(ctx context.Context, orderID string, amount, currencyCode *string) (payu.OrderStatusResponse, error)
}

// CaptureDispatcher captures orders waiting for confirmation before handing
// the notification to next. Used when automatic collection is disabled on
// the POS.
type CaptureDispatcher struct {
	next     Dispatcher
	capturer Capturer
	logger   *slog.Logger
}

func NewCaptureDispatcher(next Dispatcher, c Capturer, l *slog.Logger) *CaptureDispatcher {
	return &CaptureDispatcher{next: next, capturer: c, logger: l}
}

func (d *CaptureDispatcher) Dispatch(ctx context.Context, n Notification) error {
	if n.Order.Status == webhook.StatusWaitingForConfirmation && n.Order.OrderID != "" {
		resp, err := d.capturer.CaptureOrder(ctx, n.Order.OrderID, nil, nil)
		if err != nil {
			return fmt.Errorf("capture order %s: %w", n.Order.OrderID, err)
		}
		d.logger.InfoContext(ctx, "Order captured",
			slog.String("order_id", n.Order.OrderID),
			slog.String("status_code", resp.Status.StatusCode),
		)
	}
	return d.next.Dispatch(ctx, n)
}
