//go:build integration

package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"payupl/config"
	"payupl/internal/messaging"
	"payupl/internal/testinfra"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secondKey = "b6ca15b0d1020e8094d9b5f8d163db54"

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(secondKey))
	mac.Write([]byte(body))
	return "sender=checkout;signature=" + hex.EncodeToString(mac.Sum(nil)) + ";algorithm=SHA256;content=DOCUMENT"
}

func TestApp_CapturesAndPublishes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	suite, err := testinfra.NewTestSuite(ctx, testinfra.SuiteOptions{
		WithKafka:    true,
		WithWiremock: true,
		MappingsPath: "../payu/testdata/wiremock/mappings",
	})
	require.NoError(t, err)
	t.Cleanup(func() { suite.Cleanup(context.Background()) })

	cfg := config.Config{
		Port:                    4567,
		SecondKey:               secondKey,
		ClientID:                "145227",
		ClientSecret:            "12f071174cb7eb79d4aac5bc2f07563f",
		BaseURL:                 suite.Wiremock.BaseURL,
		OpenTimeout:             5 * time.Second,
		ReadTimeout:             5 * time.Second,
		Locale:                  "en",
		AutoCapture:             true,
		WebhookPath:             "/webhooks/payu",
		WebhookSignatureHeader:  "OpenPayU-Signature",
		WebhookDedupTTL:         time.Minute,
		ShutdownTimeout:         time.Second,
		WebhookMode:             config.WebhookModeKafka,
		KafkaBrokers:            suite.Kafka.Brokers,
		KafkaNotificationsTopic: suite.Kafka.NotificationsTopic,
	}
	require.NoError(t, cfg.Validate())

	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.close)

	_, err = a.client.OAuthToken(ctx, "")
	require.NoError(t, err)

	body := `{"order":{"orderId":"WZHF5FFDRJ140731GUEST000P01","status":"WAITING_FOR_CONFIRMATION","totalAmount":"21000","currencyCode":"PLN"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payu", strings.NewReader(body))
	req.Header.Set("OpenPayU-Signature", sign(body))
	req.Header.Set("X-Correlation-ID", "corr-e2e")
	w := httptest.NewRecorder()

	a.server.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     suite.Kafka.Brokers,
		Topic:       suite.Kafka.NotificationsTopic,
		GroupID:     suite.Kafka.Group,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WZHF5FFDRJ140731GUEST000P01", string(msg.Key))

	var env messaging.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "payu.order.waiting_for_confirmation", env.Type)
	assert.Equal(t, "corr-e2e", env.CorrelationID)
	assert.JSONEq(t, body, string(env.Payload))
}
