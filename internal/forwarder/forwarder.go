// Package forwarder sends a single prompt to the Gemini generateContent API
// and flattens whatever comes back into {text, raw}.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/credential"
	apperrors "gemini-proxy-go/internal/errors"
	"gemini-proxy-go/internal/logging"
	"gemini-proxy-go/internal/monitoring"
	"gemini-proxy-go/internal/monitoring/tracing"
	"gemini-proxy-go/internal/oauth"
	up "gemini-proxy-go/internal/upstream/gemini"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

// Result is the success payload returned to callers.
type Result struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw"`

	// UpstreamStatus is kept for logging only; it is not part of the response.
	UpstreamStatus int `json:"-"`
}

// Upstream is the generation endpoint. *gemini.Client implements it.
type Upstream interface {
	Model() string
	NewGenerateRequest(ctx context.Context, prompt string) (*http.Request, error)
	Do(req *http.Request) (*up.Response, error)
}

// Forwarder is stateless apart from the credential and upstream fixed at
// construction, so one instance serves concurrent requests.
type Forwarder struct {
	cred     credential.Credential
	upstream Upstream
}

// New binds a credential (nil means none configured) to an upstream.
func New(cred credential.Credential, upstream Upstream) *Forwarder {
	return &Forwarder{cred: cred, upstream: upstream}
}

// NewFromConfig wires the Gemini client and resolves the credential. The
// token exchange shares the client's transport so PROXY_URL applies to both.
func NewFromConfig(cfg *config.Config) *Forwarder {
	client := up.New(cfg)
	cred := credential.Resolve(cfg.Credentials, oauth.WithHTTPClient(client.HTTPClient()))
	return New(cred, client)
}

// Mode reports which credential variant is active.
func (f *Forwarder) Mode() credential.Mode { return credential.ModeOf(f.cred) }

// Forward validates prompt, authenticates, calls the upstream once and
// normalizes the reply. Every failure is returned as *errors.ForwardError;
// panics are converted to unexpected failures.
func (f *Forwarder) Forward(ctx context.Context, prompt string) (res *Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "forwarder", "PromptForwarder.Forward")
	span.SetAttributes(attribute.String("auth.mode", string(f.Mode())))
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, apperrors.Unexpected(fmt.Errorf("panic: %v", r))
			logging.FromContext(ctx).WithField("panic", r).Error("forward panicked")
		}
		result := "ok"
		if err != nil {
			result = string(apperrors.KindOf(err))
		}
		monitoring.RecordForwardResult(result)
		tracing.Finish(span, err)
	}()
	return f.forward(ctx, prompt)
}

func (f *Forwarder) forward(ctx context.Context, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.New(apperrors.KindEmptyPrompt)
	}
	if f.cred == nil {
		return nil, apperrors.New(apperrors.KindMissingCredential)
	}
	entry := logging.FromContext(ctx).WithFields(log.Fields{
		"auth":       string(f.cred.Mode()),
		"model":      f.upstream.Model(),
		"prompt_len": len(prompt),
	})

	req, err := f.upstream.NewGenerateRequest(ctx, prompt)
	if err != nil {
		return nil, apperrors.Unexpected(err)
	}
	if err := f.authorize(ctx, req); err != nil {
		entry.WithError(err).Warn("credential resolution failed")
		return nil, apperrors.Wrap(apperrors.KindAuthFailure, err)
	}

	resp, err := f.upstream.Do(req)
	if err != nil {
		monitoring.RecordUpstream(f.upstream.Model(), string(f.cred.Mode()), logging.ErrorKind(0, true), 0)
		entry.WithError(err).Error("upstream request failed")
		return nil, apperrors.Unexpected(err)
	}
	monitoring.RecordUpstream(f.upstream.Model(), string(f.cred.Mode()), logging.ErrorKind(resp.StatusCode, false), resp.Duration.Seconds())
	entry = entry.WithFields(log.Fields{
		"status":     resp.StatusCode,
		"body_bytes": len(resp.Body),
		"latency_ms": logging.DurationMS(resp.Duration),
	})
	if resp.StatusCode >= http.StatusBadRequest {
		entry.Warn("upstream returned error status")
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		entry.Warn("upstream returned empty body")
		return nil, apperrors.New(apperrors.KindEmptyUpstreamResponse)
	}
	if !gjson.ValidBytes(resp.Body) {
		entry.Warn("upstream body is not valid JSON")
		return nil, apperrors.ParseFailure(string(resp.Body))
	}

	text := Normalize(resp.Body)
	entry.WithField("text_len", len(text)).Info("prompt forwarded")
	return &Result{
		Text:           text,
		Raw:            json.RawMessage(resp.Body),
		UpstreamStatus: resp.StatusCode,
	}, nil
}

// authorize applies the credential, counting service-account token fetches.
func (f *Forwarder) authorize(ctx context.Context, req *http.Request) error {
	err := f.cred.Apply(ctx, req)
	if f.cred.Mode() == credential.ModeServiceAccount {
		monitoring.RecordTokenFetch(err == nil)
	}
	return err
}
