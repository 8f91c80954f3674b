//go:build !integration

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PAYU_SECOND_KEY", "b6ca15b0d1020e8094d9b5f8d163db54")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, 4567, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.OpenTimeout)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "/webhooks/payu", cfg.WebhookPath)
	assert.Equal(t, "OpenPayU-Signature", cfg.WebhookSignatureHeader)
	assert.Equal(t, WebhookModeLog, cfg.WebhookMode)
	assert.Equal(t, "payu.notifications", cfg.KafkaNotificationsTopic)
	assert.False(t, cfg.HasAPICredentials())
}

func TestNew_RequiresSecondKey(t *testing.T) {
	t.Setenv("PAYU_SECOND_KEY", "")

	_, err := New()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYU_SECOND_KEY")
}

func TestNew_KafkaMode(t *testing.T) {
	t.Setenv("PAYU_SECOND_KEY", "key")
	t.Setenv("WEBHOOK_MODE", "kafka")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("PAYU_CLIENT_ID", "145227")
	t.Setenv("PAYU_CLIENT_SECRET", "secret")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.HasAPICredentials())
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 4567, WebhookMode: WebhookModeLog, Locale: "en"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "polish locale", mutate: func(c *Config) { c.Locale = "pl" }},
		{name: "kafka without brokers", mutate: func(c *Config) { c.WebhookMode = WebhookModeKafka }, wantErr: "KAFKA_BROKERS"},
		{name: "unknown mode", mutate: func(c *Config) { c.WebhookMode = "sync" }, wantErr: "unsupported WEBHOOK_MODE"},
		{name: "unknown locale", mutate: func(c *Config) { c.Locale = "de" }, wantErr: "unsupported PAYU_LOCALE"},
		{name: "auto capture without credentials", mutate: func(c *Config) { c.AutoCapture = true }, wantErr: "PAYU_AUTO_CAPTURE"},
		{name: "auto capture with credentials", mutate: func(c *Config) { c.AutoCapture, c.ClientID, c.ClientSecret = true, "id", "secret" }},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: "invalid PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
