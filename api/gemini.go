// Package handler is the serverless entrypoint. Platforms such as Vercel
// route /api/gemini to Handler; configuration comes from the environment.
package handler

import (
	"net/http"
	"sync"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/logging"
	srv "gemini-proxy-go/internal/server"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var defaultHandler = newHandler(config.LoadFromEnv)

// Handler is the function the serverless platform invokes per request.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultHandler(w, r)
}

// newHandler builds the engine on first use and reuses it for every later
// invocation of a warm instance. A failed build is reported on every call.
func newHandler(load func() (*config.Config, error)) http.HandlerFunc {
	var (
		once     sync.Once
		engine   *gin.Engine
		buildErr error
	)
	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			cfg, err := load()
			if err != nil {
				buildErr = err
				log.WithError(err).Error("serverless: failed to load configuration")
				return
			}
			if err := logging.Setup(cfg); err != nil {
				log.WithError(err).Warn("serverless: failed to configure logging")
			}
			// Background reloads are skipped: serverless instances have no long-lived process.
			engine = srv.BuildEngine(cfg, srv.Dependencies{})
		})
		if buildErr != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"server configuration is invalid"}`))
			return
		}
		engine.ServeHTTP(w, r)
	}
}
