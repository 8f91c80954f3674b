// Package payu is a client for the PayU (OpenPayU v2.1) REST API.
package payu

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	ProductionBaseURL = "https://secure.payu.com"
	SandboxBaseURL    = "https://secure.snd.payu.com"

	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"
)

// Config holds configuration for Client.
type Config struct {
	ClientID     string
	ClientSecret string
	// AccessToken may be set when a token was obtained elsewhere.
	AccessToken string

	// BaseURL wins over Environment when set.
	BaseURL     string
	Environment string

	OpenTimeout time.Duration
	ReadTimeout time.Duration
	Retry       RetryConfig

	// Locale selects validation messages: "en" (default) or "pl".
	Locale string

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the PayU REST API. It is safe for concurrent use.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string

	mu          sync.RWMutex
	accessToken string

	transport *transport
	validator *validator
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client_id is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client_secret is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		var err error
		if baseURL, err = baseURLFor(cfg.Environment); err != nil {
			return nil, err
		}
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("base_url is invalid")
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, errors.New("base_url must be http(s)")
	}

	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With(slog.String("component", "payu_client"))

	v, err := newValidator(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("init validator: %w", err)
	}

	c := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		accessToken:  cfg.AccessToken,
		validator:    v,
	}
	c.transport = newTransport(parsed, cfg, c.AccessToken)

	return c, nil
}

func baseURLFor(environment string) (string, error) {
	switch environment {
	case "", EnvironmentProduction:
		return ProductionBaseURL, nil
	case EnvironmentSandbox:
		return SandboxBaseURL, nil
	default:
		return "", fmt.Errorf("unknown environment: %q (use %q or %q)", environment, EnvironmentProduction, EnvironmentSandbox)
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}
