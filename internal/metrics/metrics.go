package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontend_requests_total",
		Help: "Total number of /ip page requests by outcome",
	}, []string{"outcome"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontend_request_duration_ms",
		Help:    "Page request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	BackendRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontend_backend_requests_total",
		Help: "Total outbound requests to the geolocation API",
	})
	BackendFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontend_backend_fail_total",
		Help: "Total failed outbound requests by reason",
	}, []string{"reason"})
	BackendDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontend_backend_duration_ms",
		Help:    "Geolocation API call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontend_ratelimited_total",
		Help: "Total requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendFailTotal)
	prometheus.MustRegister(BackendDurationMs)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标处理器
// 背景：在主入口挂载到 /metrics，供抓取。
func Handler() http.Handler { return promhttp.Handler() }
