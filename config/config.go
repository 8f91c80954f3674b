package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	WebhookModeLog   = "log"
	WebhookModeKafka = "kafka"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"4567"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// SecondKey ("drugi klucz (MD5)" in the PayU panel) signs notifications.
	SecondKey string `env:"PAYU_SECOND_KEY,required,notEmpty"`

	ClientID     string        `env:"PAYU_CLIENT_ID"`
	ClientSecret string        `env:"PAYU_CLIENT_SECRET"`
	Environment  string        `env:"PAYU_ENVIRONMENT" envDefault:"production"`
	BaseURL      string        `env:"PAYU_BASE_URL"`
	OpenTimeout  time.Duration `env:"PAYU_OPEN_TIMEOUT" envDefault:"10s"`
	ReadTimeout  time.Duration `env:"PAYU_READ_TIMEOUT" envDefault:"30s"`
	Locale       string        `env:"PAYU_LOCALE" envDefault:"en"`
	// AutoCapture captures WAITING_FOR_CONFIRMATION orders on notification.
	AutoCapture bool `env:"PAYU_AUTO_CAPTURE" envDefault:"false"`

	WebhookPath            string        `env:"WEBHOOK_PATH" envDefault:"/webhooks/payu"`
	WebhookSignatureHeader string        `env:"WEBHOOK_SIGNATURE_HEADER" envDefault:"OpenPayU-Signature"`
	WebhookDedupTTL        time.Duration `env:"WEBHOOK_DEDUP_TTL" envDefault:"10m"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Webhook dispatch mode: "log" (log and acknowledge) or "kafka" (publish verified notifications)
	WebhookMode string `env:"WEBHOOK_MODE" envDefault:"log"`

	KafkaBrokers            []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaNotificationsTopic string   `env:"KAFKA_NOTIFICATIONS_TOPIC" envDefault:"payu.notifications"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	switch c.WebhookMode {
	case WebhookModeLog:
	case WebhookModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when WEBHOOK_MODE=%s", WebhookModeKafka)
		}
	default:
		return fmt.Errorf("unsupported WEBHOOK_MODE %q (use %q or %q)", c.WebhookMode, WebhookModeLog, WebhookModeKafka)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	switch c.Locale {
	case "en", "pl":
	default:
		return fmt.Errorf("unsupported PAYU_LOCALE %q (use en or pl)", c.Locale)
	}

	if c.AutoCapture && !c.HasAPICredentials() {
		return fmt.Errorf("PAYU_AUTO_CAPTURE needs PAYU_CLIENT_ID and PAYU_CLIENT_SECRET")
	}

	return nil
}

// HasAPICredentials reports whether the REST client can be built.
func (c Config) HasAPICredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
