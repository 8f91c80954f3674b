package payu

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// CreateOrder registers a new order. With HTTP 302 PayU answers with a
// redirectUri the buyer must be sent to.
func (c *Client) CreateOrder(ctx context.Context, req OrderCreateRequest) (OrderCreateResponse, error) {
	if err := c.validator.check(req, req); err != nil {
		return OrderCreateResponse{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:       "create_order",
		method:   http.MethodPost,
		path:     pathOrders,
		jsonBody: req,
		sendJSON: true,
	})
	if err != nil {
		return OrderCreateResponse{}, err
	}

	var out OrderCreateResponse
	return out, decode(resp, &out)
}

func (c *Client) RetrieveOrder(ctx context.Context, orderID string) (OrderRetrieveResponse, error) {
	if err := c.validator.checkIDs([2]string{"order_id", orderID}); err != nil {
		return OrderRetrieveResponse{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "retrieve_order",
		method: http.MethodGet,
		path:   orderPath(orderID),
	})
	if err != nil {
		return OrderRetrieveResponse{}, err
	}

	var out OrderRetrieveResponse
	return out, decode(resp, &out)
}

type captureBody struct {
	Amount       string `json:"amount,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

// CaptureOrder captures a WAITING_FOR_CONFIRMATION order. Pass nil amount
// and currency to capture the full amount; a partial capture needs both.
func (c *Client) CaptureOrder(ctx context.Context, orderID string, amount, currencyCode *string) (OrderStatusResponse, error) {
	params := captureParams{OrderID: orderID, Amount: amount, CurrencyCode: currencyCode}
	if err := c.validator.check(params, params); err != nil {
		return OrderStatusResponse{}, err
	}

	req := request{
		op:       "capture_order",
		method:   http.MethodPost,
		path:     orderCapturesPath(orderID),
		sendJSON: true,
	}
	if amount != nil || currencyCode != nil {
		body := captureBody{}
		if amount != nil {
			body.Amount = *amount
		}
		if currencyCode != nil {
			body.CurrencyCode = *currencyCode
		}
		req.jsonBody = body
	}

	resp, err := c.transport.do(ctx, req)
	if err != nil {
		return OrderStatusResponse{}, err
	}

	var out OrderStatusResponse
	return out, decode(resp, &out)
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) (OrderStatusResponse, error) {
	if err := c.validator.checkIDs([2]string{"order_id", orderID}); err != nil {
		return OrderStatusResponse{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:       "cancel_order",
		method:   http.MethodDelete,
		path:     orderPath(orderID),
		sendJSON: true,
	})
	if err != nil {
		return OrderStatusResponse{}, err
	}

	var out OrderStatusResponse
	return out, decode(resp, &out)
}

func (c *Client) RetrieveTransactions(ctx context.Context, orderID string) (TransactionsResponse, error) {
	if err := c.validator.checkIDs([2]string{"order_id", orderID}); err != nil {
		return TransactionsResponse{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "retrieve_transactions",
		method: http.MethodGet,
		path:   orderTransactionsPath(orderID),
	})
	if err != nil {
		return TransactionsResponse{}, err
	}

	var out TransactionsResponse
	return out, decode(resp, &out)
}

// decode unmarshals a successful JSON response into out. Empty bodies leave
// out untouched.
func decode(resp *response, out any) error {
	if len(resp.raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.raw, out); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.status, err)
	}
	return nil
}
