// Package oauthtest provides a fake token endpoint and throwaway
// service-account key files for tests.
package oauthtest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// TokenServer is a fake OAuth token endpoint that serves the jwt-bearer grant.
type TokenServer struct {
	*httptest.Server
	// AccessToken is returned to every caller; an empty value simulates a
	// provider that answers without a token.
	AccessToken string
	// Status overrides the response code when non-zero.
	Status int

	calls atomic.Int32
}

// NewTokenServer starts a token server returning accessToken.
func NewTokenServer(t *testing.T, accessToken string) *TokenServer {
	t.Helper()
	ts := &TokenServer{AccessToken: accessToken}
	ts.Server = httptest.NewServer(http.HandlerFunc(ts.serve))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TokenServer) serve(w http.ResponseWriter, r *http.Request) {
	ts.calls.Add(1)
	_ = r.ParseForm()
	if r.Form.Get("assertion") == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if ts.Status != 0 {
		w.WriteHeader(ts.Status)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": ts.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

// Calls returns how many token requests were served.
func (ts *TokenServer) Calls() int { return int(ts.calls.Load()) }

// TokenURL is the endpoint to put into a key file.
func (ts *TokenServer) TokenURL() string { return ts.URL + "/token" }

// WriteKeyFile writes a service-account JSON key whose token_uri points at
// tokenURL and returns its path.
func WriteKeyFile(t *testing.T, dir, tokenURL string) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	body, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "test-project",
		"private_key_id": "test-key-id",
		"private_key":    string(pemKey),
		"client_email":   "proxy@test-project.iam.gserviceaccount.com",
		"client_id":      "1234567890",
		"token_uri":      tokenURL,
	})
	if err != nil {
		t.Fatalf("marshal key file: %v", err)
	}
	path := filepath.Join(dir, "service-account.json")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return path
}
