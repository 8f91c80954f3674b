package webhook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Order statuses reported in PayU order notifications. Other values are
// passed through untouched.
const (
	StatusNew                    = "NEW"
	StatusPending                = "PENDING"
	StatusWaitingForConfirmation = "WAITING_FOR_CONFIRMATION"
	StatusCompleted              = "COMPLETED"
	StatusCanceled               = "CANCELED"
	StatusRejected               = "REJECTED"
)

// Payload is a parsed notification body. Data is the generic JSON tree
// (map[string]any, []any, string, json.Number, bool or nil).
type Payload struct {
	Data any
}

// OrderNotification is the projection of the fields handlers usually need.
type OrderNotification struct {
	OrderID      string
	ExtOrderID   string
	Status       string
	TotalAmount  string
	CurrencyCode string
}

func parsePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrPayloadParse, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return Payload{}, fmt.Errorf("%w: unexpected data after top-level value", ErrPayloadParse)
	}
	return Payload{Data: data}, nil
}

// Lookup walks nested objects by key.
func (p Payload) Lookup(path ...string) (any, bool) {
	cur := p.Data
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the value at path rendered as a string, empty when absent
// or not a scalar.
func (p Payload) String(path ...string) string {
	v, ok := p.Lookup(path...)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Order projects the order fields. Refund notifications carry orderId and
// extOrderId at the top level instead of under "order"; those are used when
// the order object is absent.
func (p Payload) Order() OrderNotification {
	o := OrderNotification{
		OrderID:      p.String("order", "orderId"),
		ExtOrderID:   p.String("order", "extOrderId"),
		Status:       p.String("order", "status"),
		TotalAmount:  p.String("order", "totalAmount"),
		CurrencyCode: p.String("order", "currencyCode"),
	}
	if o.OrderID == "" {
		o.OrderID = p.String("orderId")
	}
	if o.ExtOrderID == "" {
		o.ExtOrderID = p.String("extOrderId")
	}
	return o
}

// EventKey identifies the notification for deduplication: the payload's
// eventId, "<orderId>_<status>" for order notifications or
// "<orderId>_refund_<refundId>_<status>" for refunds. It is empty when the
// payload has none of these, and such notifications are never deduplicated.
func (p Payload) EventKey() string {
	if id := p.String("eventId"); id != "" {
		return id
	}

	o := p.Order()
	if o.OrderID == "" {
		return ""
	}
	if o.Status != "" {
		return o.OrderID + "_" + o.Status
	}

	refundID, refundStatus := p.String("refund", "refundId"), p.String("refund", "status")
	if refundID != "" && refundStatus != "" {
		return o.OrderID + "_refund_" + refundID + "_" + refundStatus
	}
	return ""
}

// FormatMinorUnits renders an amount in minor units ("2900") as "29.00".
// Non-numeric input is returned unchanged.
func FormatMinorUnits(amount string) string {
	digits, sign := amount, ""
	if strings.HasPrefix(digits, "-") {
		digits, sign = digits[1:], "-"
	} else {
		digits = strings.TrimPrefix(digits, "+")
	}
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return amount
	}

	digits = strings.TrimLeft(digits, "0")
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}
