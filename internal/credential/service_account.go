package credential

import (
	"context"
	"net/http"

	"gemini-proxy-go/internal/oauth"
)

// TokenSource fetches a bearer token. *oauth.ServiceAccount implements it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ServiceAccount exchanges a key file for a bearer token on every request.
// The token only ever travels in the Authorization header.
type ServiceAccount struct {
	KeyFilePath string
	Scopes      []string
	source      TokenSource
}

// NewServiceAccount builds the service-account variant backed by an oauth
// token exchange.
func NewServiceAccount(keyFilePath string, opts ...oauth.Option) *ServiceAccount {
	sa := oauth.NewServiceAccount(keyFilePath, opts...)
	return &ServiceAccount{KeyFilePath: keyFilePath, Scopes: sa.Scopes(), source: sa}
}

// NewServiceAccountWithSource wires an arbitrary token source (testing).
func NewServiceAccountWithSource(keyFilePath string, src TokenSource) *ServiceAccount {
	return &ServiceAccount{KeyFilePath: keyFilePath, Scopes: oauth.GenerativeLanguageScopes, source: src}
}

func (*ServiceAccount) Mode() Mode { return ModeServiceAccount }

// Apply fetches a token and sets the Authorization header.
func (s *ServiceAccount) Apply(ctx context.Context, req *http.Request) error {
	token, err := s.source.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return oauth.ErrEmptyToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
