package middleware

import (
	"time"

	"gemini-proxy-go/internal/logging"
	"gemini-proxy-go/internal/netutil"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs one line per HTTP request after it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		ip := netutil.ClientIP(c.Request)
		extras := log.Fields{
			"client_ip":     netutil.IPString(ip),
			"client_source": netutil.ClassifyClientSource(ip),
			"status":        status,
			"latency_ms":    logging.DurationMS(time.Since(start)),
			"user_agent":    c.Request.UserAgent(),
			"bytes_out":     c.Writer.Size(),
		}
		// Set by the prompt handler once the forwarder has classified the outcome.
		if kind, ok := c.Get("forward_result"); ok {
			extras["result"] = kind
		}
		entry := logging.WithReq(c, extras)
		if status >= 500 {
			entry.Warn("http_request")
			return
		}
		entry.Info("http_request")
	}
}
