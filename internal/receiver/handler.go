package receiver

import (
	"log/slog"
	"net/http"
	"time"

	"payupl/internal/webhook"
	"payupl/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ProcessingTimeHeader is sent by PayU with the time it spent on the order.
const ProcessingTimeHeader = "PayU-Processing-Time"

const (
	resultDispatched = "dispatched"
	resultDuplicate  = "duplicate"
	resultFailed     = "failed"
)

// Handler serves the PayU notification endpoint.
type Handler struct {
	processor  *webhook.Processor
	dispatcher Dispatcher
	dedup      *Deduplicator
	logger     *slog.Logger
}

// NewHandler builds a Handler. dedup may be nil.
func NewHandler(p *webhook.Processor, d Dispatcher, dedup *Deduplicator, l *slog.Logger) *Handler {
	return &Handler{
		processor:  p,
		dispatcher: d,
		dedup:      dedup,
		logger:     l.With(slog.String("component", "payu_receiver")),
	}
}

// Notify answers 400 for notifications that fail verification, 500 when
// dispatching fails and 200 otherwise. PayU redelivers on anything but 200.
func (h *Handler) Notify(c *gin.Context) {
	ctx := c.Request.Context()

	result := h.processor.ValidateAndParse(ctx, webhook.NewHTTPRequest(c.Request))
	metrics.WebhookValidations.WithLabelValues(webhook.FailureKind(result.Cause())).Inc()

	payload, ok := result.Data()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": result.Err()})
		return
	}

	order := payload.Order()
	n := Notification{
		EventKey:   payload.EventKey(),
		Order:      order,
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}

	if pt := c.GetHeader(ProcessingTimeHeader); pt != "" {
		h.logger.InfoContext(ctx, "PayU processing time",
			slog.String("order_id", order.OrderID),
			slog.String("processing_time", pt),
		)
	}

	if !h.dedup.Claim(n.EventKey) {
		metrics.WebhookNotifications.WithLabelValues(order.Status, resultDuplicate).Inc()
		h.logger.InfoContext(ctx, "Duplicate PayU notification acknowledged",
			slog.String("event_key", n.EventKey),
		)
		c.Status(http.StatusOK)
		return
	}

	if err := h.dispatcher.Dispatch(ctx, n); err != nil {
		h.dedup.Release(n.EventKey)
		metrics.WebhookNotifications.WithLabelValues(order.Status, resultFailed).Inc()
		h.logger.ErrorContext(ctx, "PayU notification dispatch failed",
			slog.String("event_key", n.EventKey),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process notification"})
		return
	}

	metrics.WebhookNotifications.WithLabelValues(order.Status, resultDispatched).Inc()
	c.Status(http.StatusOK)
}
