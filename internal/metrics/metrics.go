package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the storefront's Prometheus metrics.
type Collector struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	requestDuration prometheus.Histogram
	sessionsIssued  prometheus.Counter
	sessionsRevoked prometheus.Counter
	refreshRejected prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests handled, by method and status code.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_sessions_issued_total",
			Help: "Sessions issued by login, register and refresh.",
		}),
		sessionsRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_sessions_revoked_total",
			Help: "Refresh tokens revoked by logout and logout-all.",
		}),
		refreshRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_refresh_rejected_total",
			Help: "Refresh attempts rejected as invalid or expired.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.requestDuration,
		c.sessionsIssued,
		c.sessionsRevoked,
		c.refreshRejected,
	)

	return c
}

func (c *Collector) RecordRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordSessionIssued() {
	c.sessionsIssued.Inc()
}

func (c *Collector) RecordSessionRevoked() {
	c.sessionsRevoked.Inc()
}

func (c *Collector) RecordRefreshRejected() {
	c.refreshRejected.Inc()
}

// Handler serves the /metrics scrape endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
