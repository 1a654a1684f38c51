package credential

import (
	"context"
	"net/http"
)

// Mode names the active credential variant.
type Mode string

const (
	ModeNone           Mode = "none"
	ModeAPIKey         Mode = "api_key"
	ModeServiceAccount Mode = "service_account"
)

// Credential authorizes one outbound request. Implementations are the
// APIKey and ServiceAccount variants; exactly one is active per deployment.
type Credential interface {
	Mode() Mode
	// Apply attaches authentication to req. Any error means no upstream
	// call may be made.
	Apply(ctx context.Context, req *http.Request) error
}

// ModeOf reports the mode of c, treating nil as ModeNone.
func ModeOf(c Credential) Mode {
	if c == nil {
		return ModeNone
	}
	return c.Mode()
}
