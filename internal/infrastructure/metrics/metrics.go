package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sales"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})

	HTTPLatencyMS = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	// SaleNumbersIssued counts sequencer calls by result: ok, failed, unknown.
	SaleNumbersIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sequencer",
		Name:      "sale_numbers_total",
		Help:      "Sale number issuance attempts by result.",
	}, []string{"result"})

	// SaleOperations counts aggregate operations by name and result.
	SaleOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sale",
		Name:      "operations_total",
		Help:      "Sale operations by operation and result.",
	}, []string{"operation", "result"})
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPLatencyMS, SaleNumbersIssued, SaleOperations)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records request count and latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
