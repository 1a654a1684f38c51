package constants

import "time"

const (
	// ServerReadHeaderTimeout bounds how long a client may take to send headers.
	ServerReadHeaderTimeout = 10 * time.Second
	// ServerIdleTimeout closes idle keep-alive connections.
	ServerIdleTimeout = 120 * time.Second
	// ServerShutdownTimeout bounds graceful HTTP server shutdown.
	ServerShutdownTimeout = 30 * time.Second
	// ConfigPollInterval is the fallback reload interval when fsnotify is unavailable.
	ConfigPollInterval = 5 * time.Second
	// ConfigWatchDebounce coalesces bursts of file events into one reload.
	ConfigWatchDebounce = 100 * time.Millisecond
)
