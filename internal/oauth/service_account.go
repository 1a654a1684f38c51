package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrEmptyToken is returned when the identity provider answers without an access token.
var ErrEmptyToken = errors.New("identity provider returned no access token")

// Option customizes a ServiceAccount.
type Option func(*ServiceAccount)

// ServiceAccount exchanges a service-account key file for short-lived
// access tokens. Every Token call performs a fresh exchange.
type ServiceAccount struct {
	keyFilePath string
	scopes      []string
	httpClient  *http.Client
	readFile    func(string) ([]byte, error)
}

// NewServiceAccount creates a token source for the key file at keyFilePath.
// The file is read on every Token call so a missing or malformed file is
// reported per request rather than at startup.
func NewServiceAccount(keyFilePath string, opts ...Option) *ServiceAccount {
	s := &ServiceAccount{
		keyFilePath: keyFilePath,
		scopes:      append([]string(nil), GenerativeLanguageScopes...),
		readFile:    os.ReadFile,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithHTTPClient overrides the HTTP client used for the token exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(s *ServiceAccount) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithScopes overrides the requested scopes (testing).
func WithScopes(scopes ...string) Option {
	return func(s *ServiceAccount) {
		if len(scopes) > 0 {
			s.scopes = append([]string(nil), scopes...)
		}
	}
}

// KeyFilePath returns the configured key file location.
func (s *ServiceAccount) KeyFilePath() string { return s.keyFilePath }

// Scopes returns a copy of the requested scopes.
func (s *ServiceAccount) Scopes() []string { return append([]string(nil), s.scopes...) }

// Token performs one token exchange against the token_uri declared in the key file.
func (s *ServiceAccount) Token(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.keyFilePath) == "" {
		return "", fmt.Errorf("service account key file not configured")
	}
	data, err := s.readFile(s.keyFilePath)
	if err != nil {
		return "", fmt.Errorf("read service account key: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, s.scopes...)
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}
	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	tok, err := conf.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	if tok == nil || strings.TrimSpace(tok.AccessToken) == "" {
		return "", ErrEmptyToken
	}
	log.WithFields(log.Fields{
		"client_email": conf.Email,
		"expiry":       tok.Expiry,
	}).Debug("service account token obtained")
	return tok.AccessToken, nil
}
