package payu

import (
	"context"
	"mime"
	"net/http"
)

// CreatePayout sends the payout request as-is: PayU accepts several payout
// shapes (shop balance, card, bank account), so only non-emptiness is checked.
func (c *Client) CreatePayout(ctx context.Context, payout map[string]any) (map[string]any, error) {
	if err := c.validator.check(payoutParams{Payload: payout}, payout); err != nil {
		return nil, err
	}

	resp, err := c.transport.do(ctx, request{
		op:       "create_payout",
		method:   http.MethodPost,
		path:     pathPayouts,
		jsonBody: payout,
		sendJSON: true,
	})
	if err != nil {
		return nil, err
	}

	var out map[string]any
	return out, decode(resp, &out)
}

func (c *Client) RetrievePayout(ctx context.Context, payoutID string) (map[string]any, error) {
	if err := c.validator.checkIDs([2]string{"payout_id", payoutID}); err != nil {
		return nil, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "retrieve_payout",
		method: http.MethodGet,
		path:   payoutPath(payoutID),
	})
	if err != nil {
		return nil, err
	}

	var out map[string]any
	return out, decode(resp, &out)
}

func (c *Client) RetrieveShop(ctx context.Context, shopID string) (Shop, error) {
	if err := c.validator.checkIDs([2]string{"shop_id", shopID}); err != nil {
		return Shop{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "retrieve_shop",
		method: http.MethodGet,
		path:   shopPath(shopID),
	})
	if err != nil {
		return Shop{}, err
	}

	var out Shop
	return out, decode(resp, &out)
}

// RetrieveStatement downloads a settlement report file.
func (c *Client) RetrieveStatement(ctx context.Context, reportID string) (Statement, error) {
	if err := c.validator.checkIDs([2]string{"report_id", reportID}); err != nil {
		return Statement{}, err
	}

	resp, err := c.transport.do(ctx, request{
		op:     "retrieve_statement",
		method: http.MethodGet,
		path:   reportPath(reportID),
		header: map[string]string{"Accept": "application/octet-stream"},
	})
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Data:        resp.raw,
		Filename:    attachmentFilename(resp.header.Get("Content-Disposition")),
		ContentType: resp.header.Get("Content-Type"),
		HTTPStatus:  resp.status,
	}, nil
}

func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
