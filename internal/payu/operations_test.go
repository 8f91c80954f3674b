//go:build !integration

package payu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"payupl/pkg/pointers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() OrderCreateRequest {
	return OrderCreateRequest{
		NotifyURL:     "https://shop.example/notify",
		CustomerIP:    "127.0.0.1",
		MerchantPosID: "145227",
		Description:   "RTV market",
		CurrencyCode:  "PLN",
		TotalAmount:   "21000",
		Products: []Product{
			{Name: "Wireless Mouse for Laptop", UnitPrice: "15000", Quantity: "1"},
			{Name: "HDMI cable", UnitPrice: "6000", Quantity: "1"},
		},
	}
}

func readJSONBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestClient_CreateOrder(t *testing.T) {
	t.Run("returns redirect without following it", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v2_1/orders", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body := readJSONBody(t, r)
			assert.Equal(t, "21000", body["totalAmount"])
			assert.Equal(t, "127.0.0.1", body["customerIp"])
			assert.Len(t, body["products"], 2)

			w.Header().Set("Location", "https://merch-prod.snd.payu.com/pay/?orderId=WZHF5FFDRJ140731GUEST000P01")
			writeJSON(w, http.StatusFound, `{"status":{"statusCode":"SUCCESS"},"redirectUri":"https://merch-prod.snd.payu.com/pay/?orderId=WZHF5FFDRJ140731GUEST000P01","orderId":"WZHF5FFDRJ140731GUEST000P01"}`)
		})

		resp, err := client.CreateOrder(context.Background(), validOrder())

		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", resp.Status.StatusCode)
		assert.Equal(t, "WZHF5FFDRJ140731GUEST000P01", resp.OrderID)
		assert.Contains(t, resp.RedirectURI, "orderId=WZHF5FFDRJ140731GUEST000P01")
	})

	t.Run("validation errors are keyed by json path", func(t *testing.T) {
		var calls int
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

		order := validOrder()
		order.TotalAmount = "210.00"
		order.CurrencyCode = "pln"
		order.CustomerIP = "not-an-ip"
		order.Products[1].UnitPrice = ""

		_, err := client.CreateOrder(context.Background(), order)

		require.ErrorIs(t, err, ErrValidation)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"must be a numeric string"}, verr.Errors["totalAmount"])
		assert.Equal(t, []string{"must be a 3-letter ISO 4217 currency code"}, verr.Errors["currencyCode"])
		assert.Equal(t, []string{"must be a valid IP address"}, verr.Errors["customerIp"])
		assert.Equal(t, []string{"must be filled"}, verr.Errors["products[1].unitPrice"])
		assert.Equal(t, order, verr.Input)
		assert.Zero(t, calls)
	})

	t.Run("requires at least one product", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		order := validOrder()
		order.Products = []Product{}

		_, err := client.CreateOrder(context.Background(), order)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"must contain at least 1 item(s)"}, verr.Errors["products"])
	})

	t.Run("accepts IPv6 customer address", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":{"statusCode":"SUCCESS"},"orderId":"O1"}`)
		})

		order := validOrder()
		order.CustomerIP = "2001:db8::1"

		_, err := client.CreateOrder(context.Background(), order)

		assert.NoError(t, err)
	})

	t.Run("polish messages", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {},
			func(c *Config) { c.Locale = "pl" })

		order := validOrder()
		order.TotalAmount = "abc"
		order.Description = ""

		_, err := client.CreateOrder(context.Background(), order)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"musi być ciągiem cyfr"}, verr.Errors["totalAmount"])
		assert.Equal(t, []string{"musi być wypełnione"}, verr.Errors["description"])
	})
}

func TestClient_RetrieveOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2_1/orders/ORDER%2F1", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, `{"orders":[{"orderId":"ORDER/1","status":"COMPLETED","totalAmount":"21000","currencyCode":"PLN"}],"status":{"statusCode":"SUCCESS"},"properties":[{"name":"PAYMENT_ID","value":"1234"}]}`)
	})

	resp, err := client.RetrieveOrder(context.Background(), "ORDER/1")

	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "COMPLETED", resp.Orders[0].Status)
	assert.Equal(t, []NameValuePair{{Name: "PAYMENT_ID", Value: "1234"}}, resp.Properties)
}

func TestClient_RetrieveOrder_EmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.RetrieveOrder(context.Background(), "")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{"order_id": {"must be filled"}}, verr.Errors)
	assert.Equal(t, "Validation failed: order_id must be filled", verr.Error())
}

func TestClient_CaptureOrder(t *testing.T) {
	t.Run("full capture sends empty JSON request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v2_1/orders/ORDER1/captures", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Nil(t, readJSONBody(t, r))
			writeJSON(w, http.StatusOK, `{"status":{"statusCode":"SUCCESS","statusDesc":"Status was updated"}}`)
		})

		resp, err := client.CaptureOrder(context.Background(), "ORDER1", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "Status was updated", resp.Status.StatusDesc)
	})

	t.Run("partial capture sends amount and currency", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body := readJSONBody(t, r)
			assert.Equal(t, map[string]any{"amount": "1000", "currencyCode": "PLN"}, body)
			writeJSON(w, http.StatusOK, `{"status":{"statusCode":"SUCCESS"}}`)
		})

		_, err := client.CaptureOrder(context.Background(), "ORDER1", pointers.Ptr("1000"), pointers.Ptr("PLN"))

		assert.NoError(t, err)
	})

	tests := []struct {
		name     string
		amount   *string
		currency *string
		want     map[string][]string
	}{
		{
			name:   "amount without currency",
			amount: pointers.Ptr("1000"),
			want:   map[string][]string{"currency_code": {"is required when amount is provided"}},
		},
		{
			name:     "currency without amount",
			currency: pointers.Ptr("PLN"),
			want:     map[string][]string{"amount": {"is required when currency_code is provided"}},
		},
		{
			name:     "non numeric amount and bad currency",
			amount:   pointers.Ptr("10.00"),
			currency: pointers.Ptr("zloty"),
			want: map[string][]string{
				"amount":        {"must be a numeric string"},
				"currency_code": {"must be a 3-letter ISO 4217 currency code"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("request must not be sent")
			})

			_, err := client.CaptureOrder(context.Background(), "ORDER1", tt.amount, tt.currency)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Errors)
		})
	}
}

func TestClient_CancelOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v2_1/orders/ORDER1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"orderId":"ORDER1","extOrderId":"ext-1","status":{"statusCode":"SUCCESS"}}`)
	})

	resp, err := client.CancelOrder(context.Background(), "ORDER1")

	require.NoError(t, err)
	assert.Equal(t, "ORDER1", resp.OrderID)
	assert.Equal(t, "ext-1", resp.ExtOrderID)
}

func TestClient_RetrieveTransactions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2_1/orders/ORDER1/transactions", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"transactions":[{"payMethod":{"value":"c"},"paymentFlow":"CARD"}]}`)
	})

	resp, err := client.RetrieveTransactions(context.Background(), "ORDER1")

	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "CARD", resp.Transactions[0]["paymentFlow"])
}

func TestClient_Refunds(t *testing.T) {
	t.Run("create wraps fields in refund object", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v2_1/orders/ORDER1/refunds", r.URL.Path)
			body := readJSONBody(t, r)
			assert.Equal(t, map[string]any{
				"refund": map[string]any{"description": "Refund", "amount": "500", "extRefundId": "r-1"},
			}, body)
			writeJSON(w, http.StatusOK, `{"orderId":"ORDER1","refund":{"refundId":"5000000142","amount":"500","currencyCode":"PLN","description":"Refund","status":"PENDING"},"status":{"statusCode":"SUCCESS"}}`)
		})

		resp, err := client.CreateRefund(context.Background(), "ORDER1", "Refund", pointers.Ptr("500"), pointers.Ptr("r-1"))

		require.NoError(t, err)
		assert.Equal(t, "5000000142", resp.Refund.RefundID)
		assert.Equal(t, "PENDING", resp.Refund.Status)
	})

	t.Run("full refund omits amount", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body := readJSONBody(t, r)
			assert.Equal(t, map[string]any{"refund": map[string]any{"description": "Full"}}, body)
			writeJSON(w, http.StatusOK, `{"orderId":"ORDER1","status":{"statusCode":"SUCCESS"}}`)
		})

		_, err := client.CreateRefund(context.Background(), "ORDER1", "Full", nil, nil)

		assert.NoError(t, err)
	})

	t.Run("create validates input", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request must not be sent")
		})

		_, err := client.CreateRefund(context.Background(), "", "", pointers.Ptr("5.00"), nil)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string][]string{
			"order_id":    {"must be filled"},
			"description": {"must be filled"},
			"amount":      {"must be a numeric string"},
		}, verr.Errors)
	})

	t.Run("list", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2_1/orders/ORDER1/refunds", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"refunds":[{"refundId":"1"},{"refundId":"2"}]}`)
		})

		resp, err := client.ListRefunds(context.Background(), "ORDER1")

		require.NoError(t, err)
		assert.Len(t, resp.Refunds, 2)
	})

	t.Run("retrieve validates both ids", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := client.RetrieveRefund(context.Background(), "", "")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string][]string{
			"order_id":  {"must be filled"},
			"refund_id": {"must be filled"},
		}, verr.Errors)
	})

	t.Run("retrieve", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2_1/orders/ORDER1/refunds/5000000142", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"refundId":"5000000142","status":"FINALIZED"}`)
		})

		refund, err := client.RetrieveRefund(context.Background(), "ORDER1", "5000000142")

		require.NoError(t, err)
		assert.Equal(t, "FINALIZED", refund.Status)
	})
}

func TestClient_Payouts(t *testing.T) {
	t.Run("create sends payload as is", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2_1/payouts", r.URL.Path)
			body := readJSONBody(t, r)
			assert.Equal(t, map[string]any{
				"shopId": "SHOP1",
				"payout": map[string]any{"amount": "1000"},
			}, body)
			writeJSON(w, http.StatusCreated, `{"payout":{"payoutId":"P1","status":"PENDING"},"status":{"statusCode":"SUCCESS"}}`)
		})

		resp, err := client.CreatePayout(context.Background(), map[string]any{
			"shopId": "SHOP1",
			"payout": map[string]any{"amount": "1000"},
		})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"payoutId": "P1", "status": "PENDING"}, resp["payout"])
	})

	t.Run("create rejects empty payload", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		for _, payload := range []map[string]any{nil, {}} {
			_, err := client.CreatePayout(context.Background(), payload)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Errors, "payload")
		}
	})

	t.Run("retrieve", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2_1/payouts/P1", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"payout":{"payoutId":"P1","status":"REALIZED"}}`)
		})

		resp, err := client.RetrievePayout(context.Background(), "P1")

		require.NoError(t, err)
		assert.Contains(t, resp, "payout")
	})
}

func TestClient_RetrieveStatement(t *testing.T) {
	csv := "orderId;amount\nORDER1;21000\n"

	tests := []struct {
		name         string
		disposition  string
		wantFilename string
	}{
		{name: "quoted filename", disposition: `attachment; filename="report-2024-01.csv"`, wantFilename: "report-2024-01.csv"},
		{name: "bare filename", disposition: `attachment; filename=report.csv`, wantFilename: "report.csv"},
		{name: "no header", disposition: "", wantFilename: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v2_1/reports/R1", r.URL.Path)
				assert.Equal(t, "application/octet-stream", r.Header.Get("Accept"))
				if tt.disposition != "" {
					w.Header().Set("Content-Disposition", tt.disposition)
				}
				w.Header().Set("Content-Type", "text/csv")
				_, _ = io.WriteString(w, csv)
			})

			stmt, err := client.RetrieveStatement(context.Background(), "R1")

			require.NoError(t, err)
			assert.Equal(t, csv, string(stmt.Data))
			assert.Equal(t, tt.wantFilename, stmt.Filename)
			assert.Equal(t, "text/csv", stmt.ContentType)
			assert.Equal(t, http.StatusOK, stmt.HTTPStatus)
		})
	}
}
