package middleware

import (
	"strings"

	"gemini-proxy-go/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxRequestIDLen = 128

// RequestID reuses an inbound X-Request-ID or generates one. The id is
// stored on the gin context, echoed in the response and attached to the
// request context for logging below the HTTP layer.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
