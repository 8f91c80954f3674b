package payu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"payupl/pkg/correlation"
	"payupl/pkg/metrics"

	"github.com/goccy/go-json"
)

const errorPreviewLimit = 300

type request struct {
	op     string
	method string
	path   string
	header map[string]string

	// jsonBody is sent when sendJSON is set; a nil jsonBody means an explicit
	// empty JSON request (capture without amount, cancel).
	jsonBody any
	sendJSON bool
	form     url.Values

	skipAuth bool
}

type response struct {
	status int
	header http.Header
	raw    []byte
	parsed any
}

type transport struct {
	baseURL     *url.URL
	httpClient  *http.Client
	accessToken func() string
	retry       RetryConfig
	logger      *slog.Logger
}

func newTransport(baseURL *url.URL, cfg Config, accessToken func() string) *transport {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		dialer := &net.Dialer{Timeout: cfg.OpenTimeout}
		httpClient = &http.Client{
			// Order creation answers 302 with the payment page; the body
			// carries redirectUri and must reach the caller.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   cfg.OpenTimeout,
				ResponseHeaderTimeout: cfg.ReadTimeout,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}

	return &transport{
		baseURL:     baseURL,
		httpClient:  httpClient,
		accessToken: accessToken,
		retry:       cfg.Retry,
		logger:      cfg.Logger,
	}
}

func (t *transport) do(ctx context.Context, req request) (*response, error) {
	start := time.Now()

	var resp *response
	call := func() error {
		var err error
		resp, err = t.send(ctx, req)
		return err
	}

	var err error
	if req.method == http.MethodGet {
		err = DoWithRetry(ctx, t.retry, call)
	} else {
		err = call()
	}

	outcome := outcomeLabel(err)
	metrics.ClientRequestDuration.WithLabelValues(req.op, outcome).Observe(time.Since(start).Seconds())
	metrics.ClientRequestsTotal.WithLabelValues(req.op, outcome).Inc()

	if err != nil {
		t.logger.WarnContext(ctx, "PayU request failed",
			slog.String("op", req.op),
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t.logger.DebugContext(ctx, "PayU request completed",
		slog.String("op", req.op),
		slog.Int("status", resp.status),
		slog.String("payu_correlation_id", resp.header.Get(correlation.PayUHeaderName)),
		slog.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

func (t *transport) send(ctx context.Context, req request) (*response, error) {
	httpReq, err := t.build(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapNetworkError(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, wrapNetworkError(err)
	}

	return handleResponse(httpResp, raw)
}

func (t *transport) build(ctx context.Context, req request) (*http.Request, error) {
	ref, err := url.Parse(req.path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", req.path, err)
	}
	target := t.baseURL.ResolveReference(ref)

	if req.method == http.MethodGet && (req.form != nil || (req.sendJSON && req.jsonBody != nil)) {
		// PayU answers GET requests carrying a body with HTTP 403.
		return nil, errors.New("GET requests must not include a body")
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.sendJSON:
		contentType = "application/json"
		if req.jsonBody != nil {
			payload, err := json.Marshal(req.jsonBody)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			body = bytes.NewReader(payload)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	if !req.skipAuth {
		token := t.accessToken()
		if token == "" {
			return nil, ErrMissingAccessToken
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range req.header {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

func handleResponse(resp *http.Response, raw []byte) (*response, error) {
	parsed := parseBody(resp.Header.Get("Content-Type"), raw)

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return &response{
			status: resp.StatusCode,
			header: resp.Header,
			raw:    raw,
			parsed: parsed,
		}, nil
	}

	return nil, &ResponseError{
		Message:       buildErrorMessage(resp.StatusCode, parsed, raw),
		HTTPStatus:    resp.StatusCode,
		CorrelationID: resp.Header.Get(correlation.PayUHeaderName),
		RawBody:       raw,
		ParsedBody:    parsed,
		kind:          kindForStatus(resp.StatusCode),
	}
}

// parseBody decodes JSON when the content type says so or the body looks
// like JSON; otherwise, or when decoding fails, the body is kept as a string.
func parseBody(contentType string, raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	looksJSON := bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))
	if !strings.Contains(contentType, "application/json") && !looksJSON {
		return string(raw)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func buildErrorMessage(status int, parsed any, raw []byte) string {
	parts := []string{fmt.Sprintf("HTTP %d", status)}

	code, desc := statusFields(parsed)
	if code != "" {
		parts = append(parts, code)
	}
	if desc != "" {
		parts = append(parts, desc)
	}

	if len(parts) == 1 {
		preview := strings.TrimSpace(string(raw))
		if utf8.RuneCountInString(preview) > errorPreviewLimit {
			preview = string([]rune(preview)[:errorPreviewLimit]) + "…"
		}
		if preview != "" {
			parts = append(parts, preview)
		}
	}

	return strings.Join(parts, " - ")
}

func statusFields(parsed any) (code, desc string) {
	body, ok := parsed.(map[string]any)
	if !ok {
		return "", ""
	}
	status, ok := body["status"].(map[string]any)
	if !ok {
		return "", ""
	}
	code, _ = status["statusCode"].(string)
	desc, _ = status["statusDesc"].(string)
	return code, desc
}

func wrapNetworkError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &NetworkError{Message: "Request timed out", Original: err}
	}
	return &NetworkError{Message: "Network failure", Original: err}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrClient):
		return "client_error"
	case errors.Is(err, ErrServer):
		return "server_error"
	default:
		return "error"
	}
}
