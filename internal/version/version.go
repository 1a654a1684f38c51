package version

// Version is overridden at build time with -ldflags "-X gemini-proxy-go/internal/version.Version=...".
var Version = "dev"
