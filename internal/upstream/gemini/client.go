package gemini

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/constants"
	"gemini-proxy-go/internal/monitoring/tracing"
	"gemini-proxy-go/internal/upstream"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client issues generateContent calls. It never retries and adds no
// timeout of its own; cancellation is left to the caller's context.
type Client struct {
	endpoint string
	model    string
	cli      *http.Client
}

// Response is a fully read upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// New builds a client on a clone of the default transport, honouring the
// configured proxy URL.
func New(cfg *config.Config) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Transport: newTransport(cfg.Upstream.ProxyURL)})
}

// newTransport tunes connection pooling only; no overall request timeout is set.
func newTransport(proxyURL string) *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = getProxyFunc(proxyURL)
	tr.DialContext = (&net.Dialer{
		Timeout:   constants.DefaultDialTimeout,
		KeepAlive: constants.DefaultKeepAlive,
	}).DialContext
	tr.MaxIdleConns = constants.MaxIdleConns
	tr.MaxIdleConnsPerHost = constants.MaxIdleConnsPerHost
	tr.IdleConnTimeout = constants.IdleConnTimeout
	tr.TLSHandshakeTimeout = constants.DefaultTLSHandshakeTimeout
	tr.ExpectContinueTimeout = constants.DefaultExpectContinueTimeout
	return tr
}

// NewWithHTTPClient uses hc for all calls (testing, custom transports).
func NewWithHTTPClient(cfg *config.Config, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{endpoint: cfg.Upstream.Endpoint, model: cfg.Upstream.Model, cli: hc}
}

// getProxyFunc returns appropriate proxy function based on configuration
func getProxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	if proxyURL != "" {
		if parsedURL, err := url.Parse(proxyURL); err == nil {
			return http.ProxyURL(parsedURL)
		}
	}
	return http.ProxyFromEnvironment
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// HTTPClient exposes the underlying client so the token exchange can share it.
func (c *Client) HTTPClient() *http.Client { return c.cli }

// GenerateURL is the unauthenticated generation endpoint.
func (c *Client) GenerateURL() string {
	return BuildActionURL(c.endpoint, c.model, ActionGenerate)
}

// NewGenerateRequest builds the generation request for prompt without any
// authentication attached.
func (c *Client) NewGenerateRequest(ctx context.Context, prompt string) (*http.Request, error) {
	payload, err := BuildPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GenerateURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	applyDefaultHeaders(ctx, req)
	return req, nil
}

// Do sends req exactly once and reads the whole body.
func (c *Client) Do(req *http.Request) (*Response, error) {
	ctx, span := tracing.StartSpan(req.Context(), "upstream/gemini", "Gemini.GenerateContent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("upstream.model", c.model),
		))
	start := time.Now()
	resp, err := c.cli.Do(req.WithContext(ctx))
	if err != nil {
		tracing.Finish(span, err)
		return nil, err
	}
	body, err := upstream.ReadAll(resp)
	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("http.response_content_length", len(body)),
	)
	tracing.Finish(span, err)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Duration:   time.Since(start),
	}, nil
}
