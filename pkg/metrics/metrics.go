package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "liverail",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests made to upstream transport APIs",
	}, []string{"source", "status"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "liverail",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of upstream transport API requests",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
	}, []string{"source"})

	JourneyPlans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Journey plan requests by provider and outcome",
	}, []string{"provider", "outcome"})

	InterchangeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "planner",
		Name:      "interchange_outcomes_total",
		Help:      "Smart planner interchange search results",
	}, []string{"outcome"})

	LiveCorrections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "livecorrection",
		Name:      "legs_total",
		Help:      "Legs examined by the live correction engine",
	}, []string{"outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Fallback cache lookups by kind and result",
	}, []string{"kind", "result"})

	GetHomeCandidates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liverail",
		Subsystem: "gethome",
		Name:      "candidates_total",
		Help:      "Get home boarding station candidates by outcome",
	}, []string{"outcome"})
)

// Middleware records request metrics using the matched route rather than the raw path
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
