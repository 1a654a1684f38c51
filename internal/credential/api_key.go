package credential

import (
	"context"
	"net/http"
)

// APIKey sends a static secret as the "key" query parameter.
type APIKey struct {
	Key string
}

func (APIKey) Mode() Mode { return ModeAPIKey }

// Apply never performs I/O.
func (k APIKey) Apply(_ context.Context, req *http.Request) error {
	q := req.URL.Query()
	q.Set("key", k.Key)
	req.URL.RawQuery = q.Encode()
	return nil
}
