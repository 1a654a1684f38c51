package server

import (
	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/handlers/prompt"
	mw "gemini-proxy-go/internal/middleware"
	"github.com/gin-gonic/gin"
)

var metricsHandler = mw.MetricsHandler

// applyStandardEngineSettings applies common Gin settings and middlewares.
// Recovery runs first so panics anywhere below still produce a JSON 500.
func applyStandardEngineSettings(engine *gin.Engine, cfg *config.Config) {
	if !cfg.Logging.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	_ = engine.SetTrustedProxies([]string{})
	engine.HandleMethodNotAllowed = true

	engine.Use(mw.Recovery(), mw.RequestID(), mw.Metrics())
	engine.Use(mw.CORS())
	if cfg.Server.RequestLogEnabled {
		engine.Use(mw.RequestLogger())
	}
	engine.NoMethod(prompt.MethodNotAllowed)
}

// RegisterPromptRoutes mounts POST /api/gemini under the given router group.
func RegisterPromptRoutes(root *gin.RouterGroup, fw prompt.Forwarder) *prompt.Handler {
	h := prompt.New(fw)
	root.POST("/api/gemini", h.Generate)
	return h
}
