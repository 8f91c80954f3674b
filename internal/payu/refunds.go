package payu

import (
	"context"
	"net/http"
)

// CreateRefund refunds an order. Nil amount refunds the full amount.
func (c *Client) CreateRefund(ctx context.Context, orderID, description string, amount, extRefundID *string) (RefundResponse, error) {
	params := refundParams{
		OrderID:     orderID,
		Description: description,
		Amount:      amount,
		ExtRefundID: extRefundID,
	}
	if err := c.validator.check(params, params); err != nil {
		return RefundResponse{}, err
	}

	refund := RefundRequest{Description: description}
	if amount != nil {
		refund.Amount = *amount
	}
	if extRefundID != nil {
		refund.ExtRefundID = *extRefundID
	}

	resp, err := c.transport.do(ctx, request{
		op:       "create_refund",
		method:   http.MethodPost,
		path:     orderRefundsPath(orderID),
		jsonBody: map[string]RefundRequest{"refund": refund},
		sendJSON: true,
	})
	if err != nil {
		return RefundResponse{}, err
	}

	var out RefundResponse
	return out, decode(resp, &out)
}

func (c *Client) ListRefunds(ctx context.Context, orderID string) (RefundListResponse, error) {
	if err := c.validator.checkIDs([2]string{"order_id", orderID}); err != nil {
		return RefundListResponse{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "list_refunds",
		method: http.MethodGet,
		path:   orderRefundsPath(orderID),
	})
	if err != nil {
		return RefundListResponse{}, err
	}

	var out RefundListResponse
	return out, decode(resp, &out)
}

func (c *Client) RetrieveRefund(ctx context.Context, orderID, refundID string) (Refund, error) {
	if err := c.validator.checkIDs([2]string{"order_id", orderID}, [2]string{"refund_id", refundID}); err != nil {
		return Refund{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "retrieve_refund",
		method: http.MethodGet,
		path:   orderRefundPath(orderID, refundID),
	})
	if err != nil {
		return Refund{}, err
	}

	var out Refund
	return out, decode(resp, &out)
}
