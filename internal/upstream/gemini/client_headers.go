package gemini

import (
	"context"
	"net/http"
	"runtime"
	"strings"

	"gemini-proxy-go/internal/logging"
	"gemini-proxy-go/internal/version"
)

func userAgent() string {
	return "gemini-proxy-go/" + version.Version + " (" + runtime.GOOS + "; " + runtime.GOARCH + ")"
}

// applyDefaultHeaders sets the headers every generation call carries.
// Authentication is attached separately by the credential.
func applyDefaultHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent())
	gv := strings.TrimPrefix(runtime.Version(), "go")
	if gv == "" {
		gv = "unknown"
	}
	req.Header.Set("X-Goog-Api-Client", "gl-go/"+gv)
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Client-Request-ID", rid)
	}
}
