package middleware

import (
	"net/http"
	"runtime/debug"

	"gemini-proxy-go/internal/logging"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Recovery 返回一个 panic 恢复中间件
func Recovery() gin.HandlerFunc {
	return RecoveryWithWriter(nil)
}

// RecoveryWithWriter recovers panics into a 500 {"error": ...} response.
// writer, if set, is called before the response is written.
func RecoveryWithWriter(writer gin.RecoveryFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.WithReq(c, log.Fields{
					"error":      err,
					"stack":      string(debug.Stack()),
					"user_agent": c.Request.UserAgent(),
				}).Error("Panic recovered")

				if writer != nil {
					writer(c, err)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
