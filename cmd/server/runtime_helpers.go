package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/constants"
	"gemini-proxy-go/internal/events"
	"gemini-proxy-go/internal/logging"
	log "github.com/sirupsen/logrus"
)

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}
}

// serve runs s until ctx is done, then shuts it down gracefully. When ln is
// nil the server listens on s.Addr.
func serve(ctx context.Context, s *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if ln != nil {
			log.Infof("Gemini proxy listening on %s", ln.Addr())
			err = s.Serve(ln)
		} else {
			log.Infof("Gemini proxy listening on %s", s.Addr)
			err = s.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// reloadLogging re-applies logging settings from a reloaded config. The
// -debug flag keeps debug logging on regardless of the file.
func reloadLogging(next *config.Config, forceDebug bool) {
	if next == nil {
		return
	}
	if forceDebug {
		next.Logging.Debug = true
	}
	if err := logging.Setup(next); err != nil {
		log.WithError(err).Warn("failed to apply reloaded logging settings")
		return
	}
	log.WithFields(log.Fields{
		"debug":    next.Logging.Debug,
		"log_file": next.Logging.LogFile,
	}).Info("logging settings reloaded")
}

// subscribeReloads wires config reloads to the runtime. Credentials and
// upstream settings are fixed for the process; only logging follows the file.
func subscribeReloads(hub *events.Hub, current *config.Config, forceDebug bool) {
	hub.Subscribe(events.TopicConfigReloaded, func(_ context.Context, evt events.Event) {
		next, ok := evt.Payload.(*config.Config)
		if !ok {
			return
		}
		reloadLogging(next, forceDebug)
		if fields := fixedSettingChanges(current, next); len(fields) > 0 {
			log.WithField("fields", fields).Warn("config changed settings that need a restart to take effect")
		}
	})
}

// fixedSettingChanges lists the settings that differ between cur and next
// but are only read at startup.
func fixedSettingChanges(cur, next *config.Config) []string {
	var out []string
	if cur.Credentials != next.Credentials {
		out = append(out, "credentials")
	}
	if cur.Server.Port != next.Server.Port {
		out = append(out, "port")
	}
	if cur.Server.BasePath != next.Server.BasePath {
		out = append(out, "base_path")
	}
	if cur.Upstream != next.Upstream {
		out = append(out, "upstream")
	}
	if cur.Monitoring != next.Monitoring || cur.Server.RequestLogEnabled != next.Server.RequestLogEnabled {
		out = append(out, "middleware")
	}
	return out
}
