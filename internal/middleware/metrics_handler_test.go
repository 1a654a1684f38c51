package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gemini-proxy-go/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesProxyMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)

	monitoring.RecordForwardResult("ok")

	MetricsHandler(c)

	body := w.Body.String()
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body, "gemini_proxy_forward_results_total")
	require.Contains(t, body, "# HELP")
	require.Contains(t, body, "# TYPE")
}
