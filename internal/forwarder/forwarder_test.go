package forwarder

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/credential"
	apperrors "gemini-proxy-go/internal/errors"
	"gemini-proxy-go/internal/monitoring"
	"gemini-proxy-go/internal/oauth"
	"gemini-proxy-go/internal/oauth/oauthtest"
	up "gemini-proxy-go/internal/upstream/gemini"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeUpstream records every generation call it receives.
type fakeUpstream struct {
	srv   *httptest.Server
	calls atomic.Int32

	body     string
	status   int
	lastReq  atomic.Value // *http.Request
	lastBody atomic.Value // string
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{body: body, status: status}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		by, _ := io.ReadAll(r.Body)
		f.lastReq.Store(r)
		f.lastBody.Store(string(by))
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) client() *up.Client {
	cfg := config.Default()
	cfg.Upstream.Endpoint = f.srv.URL
	return up.NewWithHTTPClient(cfg, f.srv.Client())
}

func (f *fakeUpstream) request() *http.Request {
	r, _ := f.lastReq.Load().(*http.Request)
	return r
}

const helloBody = `{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`

func TestForwardAPIKey(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	fw := New(credential.APIKey{Key: "secret"}, fu.client())

	res, err := fw.Forward(context.Background(), "  hi there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.JSONEq(t, helloBody, string(res.Raw))
	assert.Equal(t, int32(1), fu.calls.Load())

	req := fu.request()
	require.NotNil(t, req)
	assert.Equal(t, "secret", req.URL.Query().Get("key"))
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", req.URL.Path)

	body := fu.lastBody.Load().(string)
	assert.Equal(t, "  hi there  ", gjson.Get(body, "contents.0.parts.0.text").String())
	assert.Equal(t, int64(1), gjson.Get(body, "contents.#").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "contents.0.parts.#").Int())
}

func TestForwardServiceAccount(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	ts := oauthtest.NewTokenServer(t, "sa-token")
	keyPath := oauthtest.WriteKeyFile(t, t.TempDir(), ts.TokenURL())

	cred := credential.Resolve(config.CredentialsConfig{ServiceKeyPath: keyPath}, oauth.WithHTTPClient(ts.Client()))
	fw := New(cred, fu.client())
	require.Equal(t, credential.ModeServiceAccount, fw.Mode())

	res, err := fw.Forward(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, 1, ts.Calls())
	assert.Equal(t, int32(1), fu.calls.Load())

	req := fu.request()
	assert.Equal(t, "Bearer sa-token", req.Header.Get("Authorization"))
	assert.NotContains(t, req.URL.RawQuery, "sa-token")
	assert.Empty(t, req.URL.Query().Get("key"))
}

func TestForwardBothConfiguredUsesAPIKey(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	ts := oauthtest.NewTokenServer(t, "sa-token")
	keyPath := oauthtest.WriteKeyFile(t, t.TempDir(), ts.TokenURL())

	cred := credential.Resolve(config.CredentialsConfig{APIKey: "k", ServiceKeyPath: keyPath}, oauth.WithHTTPClient(ts.Client()))
	_, err := New(cred, fu.client()).Forward(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, 0, ts.Calls(), "no token exchange when an API key is set")
	assert.Equal(t, "k", fu.request().URL.Query().Get("key"))
}

func TestForwardEmptyPromptMakesNoCalls(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	ts := oauthtest.NewTokenServer(t, "sa-token")
	keyPath := oauthtest.WriteKeyFile(t, t.TempDir(), ts.TokenURL())
	cred := credential.Resolve(config.CredentialsConfig{ServiceKeyPath: keyPath}, oauth.WithHTTPClient(ts.Client()))
	fw := New(cred, fu.client())

	for _, p := range []string{"", " ", "\n\t  "} {
		_, err := fw.Forward(context.Background(), p)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindEmptyPrompt, apperrors.KindOf(err))
	}
	assert.Equal(t, int32(0), fu.calls.Load())
	assert.Equal(t, 0, ts.Calls())
}

func TestForwardMissingCredential(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	_, err := New(nil, fu.client()).Forward(context.Background(), "hi")
	assert.True(t, apperrors.Is(err, apperrors.KindMissingCredential))
	assert.Equal(t, int32(0), fu.calls.Load())
}

func TestForwardAuthFailureShortCircuits(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	ts := oauthtest.NewTokenServer(t, "")
	keyPath := oauthtest.WriteKeyFile(t, t.TempDir(), ts.TokenURL())
	cred := credential.Resolve(config.CredentialsConfig{ServiceKeyPath: keyPath}, oauth.WithHTTPClient(ts.Client()))

	before := testutil.ToFloat64(monitoring.TokenFetchTotal.WithLabelValues("error"))
	_, err := New(cred, fu.client()).Forward(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthFailure, apperrors.KindOf(err))
	assert.Equal(t, 1, ts.Calls())
	assert.Equal(t, int32(0), fu.calls.Load())
	assert.Equal(t, before+1, testutil.ToFloat64(monitoring.TokenFetchTotal.WithLabelValues("error")))
}

func TestForwardAuthFailureMissingKeyFile(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	cred := credential.Resolve(config.CredentialsConfig{ServiceKeyPath: t.TempDir() + "/nope.json"})
	_, err := New(cred, fu.client()).Forward(context.Background(), "hi")
	assert.Equal(t, apperrors.KindAuthFailure, apperrors.KindOf(err))
	assert.Equal(t, int32(0), fu.calls.Load())
}

func TestForwardEmptyUpstreamBody(t *testing.T) {
	for _, body := range []string{"", "  \n"} {
		fu := newFakeUpstream(t, http.StatusOK, body)
		_, err := New(credential.APIKey{Key: "k"}, fu.client()).Forward(context.Background(), "hi")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindEmptyUpstreamResponse, apperrors.KindOf(err), "body %q", body)
	}
}

func TestForwardParseFailureKeepsRaw(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, "{not json")
	_, err := New(credential.APIKey{Key: "k"}, fu.client()).Forward(context.Background(), "hi")
	require.Error(t, err)

	fe := apperrors.As(err)
	assert.Equal(t, apperrors.KindParseFailure, fe.Kind)
	assert.Equal(t, "{not json", fe.Raw)
}

func TestForwardUnknownShapeStringified(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, `{"foo":"bar"}`)
	res, err := New(credential.APIKey{Key: "k"}, fu.client()).Forward(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, `{"foo":"bar"}`, res.Text)
}

func TestForwardUpstreamErrorStatusIsNormalized(t *testing.T) {
	body := `{"error":{"code":400,"message":"API key not valid"}}`
	fu := newFakeUpstream(t, http.StatusBadRequest, body)
	res, err := New(credential.APIKey{Key: "bad"}, fu.client()).Forward(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, body, res.Text)
	assert.Equal(t, http.StatusBadRequest, res.UpstreamStatus)
	assert.Equal(t, int32(1), fu.calls.Load())
}

func TestForwardTransportErrorIsUnexpected(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	client := fu.client()
	fu.srv.Close()

	_, err := New(credential.APIKey{Key: "k"}, client).Forward(context.Background(), "hi")
	require.Error(t, err)
	fe := apperrors.As(err)
	assert.Equal(t, apperrors.KindUnexpectedFailure, fe.Kind)
	assert.NotEmpty(t, fe.Message)
	assert.Empty(t, fe.Raw)
}

type panickingUpstream struct{ fakeUpstreamModel }

type fakeUpstreamModel struct{}

func (fakeUpstreamModel) Model() string { return "m" }

func (panickingUpstream) NewGenerateRequest(context.Context, string) (*http.Request, error) {
	panic("kaboom")
}

func (panickingUpstream) Do(*http.Request) (*up.Response, error) { return nil, errors.New("unreachable") }

func TestForwardRecoversPanics(t *testing.T) {
	_, err := New(credential.APIKey{Key: "k"}, panickingUpstream{}).Forward(context.Background(), "hi")
	require.Error(t, err)
	fe := apperrors.As(err)
	assert.Equal(t, apperrors.KindUnexpectedFailure, fe.Kind)
	assert.Contains(t, fe.Message, "kaboom")
}

func TestForwardCountsResults(t *testing.T) {
	fu := newFakeUpstream(t, http.StatusOK, helloBody)
	fw := New(credential.APIKey{Key: "k"}, fu.client())

	okBefore := testutil.ToFloat64(monitoring.ForwardResultsTotal.WithLabelValues("ok"))
	emptyBefore := testutil.ToFloat64(monitoring.ForwardResultsTotal.WithLabelValues(string(apperrors.KindEmptyPrompt)))

	_, _ = fw.Forward(context.Background(), "hi")
	_, _ = fw.Forward(context.Background(), "")

	assert.Equal(t, okBefore+1, testutil.ToFloat64(monitoring.ForwardResultsTotal.WithLabelValues("ok")))
	assert.Equal(t, emptyBefore+1, testutil.ToFloat64(monitoring.ForwardResultsTotal.WithLabelValues(string(apperrors.KindEmptyPrompt))))
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, credential.ModeNone, NewFromConfig(cfg).Mode())

	cfg.Credentials.APIKey = "k"
	cfg.Credentials.ServiceKeyPath = "/sa.json"
	assert.Equal(t, credential.ModeAPIKey, NewFromConfig(cfg).Mode())
}
