package credential

import (
	"strings"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/oauth"
)

// Resolve selects the credential for a deployment: the static API key
// first, the service-account key file second. It returns nil when neither
// is configured.
func Resolve(cfg config.CredentialsConfig, opts ...oauth.Option) Credential {
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return APIKey{Key: key}
	}
	if path := strings.TrimSpace(cfg.ServiceKeyPath); path != "" {
		return NewServiceAccount(path, opts...)
	}
	return nil
}
