package webhook

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Request is the part of an inbound HTTP request the processor needs.
// Body must return the same bytes on every call.
type Request interface {
	Header(name string) string
	Body() ([]byte, error)
}

// HTTPRequest adapts *http.Request. The body is buffered on first read and
// r.Body is replaced so later handlers in the chain can still read it.
type HTTPRequest struct {
	r    *http.Request
	once sync.Once
	body []byte
	err  error
}

func NewHTTPRequest(r *http.Request) *HTTPRequest {
	return &HTTPRequest{r: r}
}

func (h *HTTPRequest) Header(name string) string {
	return h.r.Header.Get(name)
}

func (h *HTTPRequest) Body() ([]byte, error) {
	h.once.Do(func() {
		if h.r.Body == nil || h.r.Body == http.NoBody {
			h.body = []byte{}
			return
		}
		h.body, h.err = io.ReadAll(h.r.Body)
		_ = h.r.Body.Close()
		if h.err != nil {
			h.err = fmt.Errorf("read body: %w", h.err)
		}
		h.r.Body = io.NopCloser(bytes.NewReader(h.body))
	})
	return h.body, h.err
}

// RawRequest is a Request over an already received header set and body.
type RawRequest struct {
	header http.Header
	body   []byte
}

// NewRawRequest copies header keys into canonical form so lookups are
// case-insensitive.
func NewRawRequest(header map[string]string, body []byte) *RawRequest {
	h := make(http.Header, len(header))
	for k, v := range header {
		h.Set(k, v)
	}
	return &RawRequest{header: h, body: body}
}

func (r *RawRequest) Header(name string) string {
	return r.header.Get(name)
}

func (r *RawRequest) Body() ([]byte, error) {
	return r.body, nil
}
