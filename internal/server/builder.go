package server

import (
	"net/http"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/credential"
	"gemini-proxy-go/internal/forwarder"
	"gemini-proxy-go/internal/handlers/prompt"
	"gemini-proxy-go/internal/version"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Forwarder is what the engine needs from the prompt forwarder.
type Forwarder interface {
	prompt.Forwarder
	Mode() credential.Mode
}

// Dependencies encapsulates runtime services required to build the HTTP engine.
type Dependencies struct {
	// Forwarder defaults to forwarder.NewFromConfig(cfg) when nil.
	Forwarder Forwarder
}

// BuildEngine constructs the gin engine serving the prompt endpoint, health
// check and metrics.
func BuildEngine(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Forwarder == nil {
		deps.Forwarder = forwarder.NewFromConfig(cfg)
	}
	mode := deps.Forwarder.Mode()
	if mode == credential.ModeNone {
		log.Warn("no upstream credential configured; /api/gemini will answer 500 until GOOGLE_API_KEY or GOOGLE_SERVICE_KEY_PATH is set")
	}

	engine := gin.New()
	applyStandardEngineSettings(engine, cfg)

	basePath := cfg.Server.BasePath
	root := engine.Group(basePath)
	RegisterPromptRoutes(root, deps.Forwarder)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"credential": string(mode),
			"model":      cfg.Upstream.Model,
			"version":    version.Version,
		})
	}
	root.GET("/healthz", health)
	// Probes usually hit the root path regardless of base path.
	if basePath != "" {
		engine.GET("/healthz", health)
	}
	if cfg.Monitoring.MetricsEnabled {
		root.GET("/metrics", metricsHandler)
	}

	log.WithFields(log.Fields{
		"base_path":  basePath,
		"credential": string(mode),
		"model":      cfg.Upstream.Model,
		"metrics":    cfg.Monitoring.MetricsEnabled,
	}).Debug("engine built")
	return engine
}
