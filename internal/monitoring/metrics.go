package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_proxy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_class"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gemini_proxy_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "path", "status_class"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gemini_proxy_http_inflight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// 上游调用指标
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_proxy_upstream_requests_total",
			Help: "Total number of generateContent calls by outcome",
		},
		[]string{"model", "auth", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gemini_proxy_upstream_request_duration_seconds",
			Help:    "generateContent latency in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"model"},
	)

	TokenFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_proxy_token_fetch_total",
			Help: "Total number of service-account token fetches by result",
		},
		[]string{"result"},
	)

	// 转发结果（按错误类别）
	ForwardResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_proxy_forward_results_total",
			Help: "Total number of forwarded prompts by result kind",
		},
		[]string{"result"},
	)
)

// RecordUpstream counts one generateContent call.
func RecordUpstream(model, auth, outcome string, seconds float64) {
	UpstreamRequestsTotal.WithLabelValues(model, auth, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(model).Observe(seconds)
}

// RecordTokenFetch counts one identity-provider exchange.
func RecordTokenFetch(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	TokenFetchTotal.WithLabelValues(result).Inc()
}

// RecordForwardResult counts the final outcome of a forwarded prompt.
// result is "ok" or an error kind label.
func RecordForwardResult(result string) {
	if result == "" {
		result = "ok"
	}
	ForwardResultsTotal.WithLabelValues(result).Inc()
}
