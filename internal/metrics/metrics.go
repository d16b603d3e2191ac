package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldnest",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "goldnest",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	investments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goldnest",
			Subsystem: "ledger",
			Name:      "investments_total",
			Help:      "Total number of applied investments.",
		},
	)

	investedLKR = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goldnest",
			Subsystem: "ledger",
			Name:      "invested_lkr_total",
			Help:      "Sum of invested currency in LKR.",
		},
	)

	investedGrams = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goldnest",
			Subsystem: "ledger",
			Name:      "invested_grams_total",
			Help:      "Sum of credited gold weight in grams.",
		},
	)

	ledgerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldnest",
			Subsystem: "ledger",
			Name:      "failures_total",
			Help:      "Rejected or failed investment requests by reason.",
		},
		[]string{"reason"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goldnest",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication events by kind and outcome.",
		},
		[]string{"event", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		investments,
		investedLKR,
		investedGrams,
		ledgerFailures,
		authEvents,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency for every fiber route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		method := strings.ToUpper(c.Method())

		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordInvestment records a successfully applied investment.
func RecordInvestment(amountLKR, grams float64) {
	investments.Inc()
	investedLKR.Add(amountLKR)
	investedGrams.Add(grams)
}

// RecordLedgerFailure records a rejected or failed investment.
func RecordLedgerFailure(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	ledgerFailures.WithLabelValues(reason).Inc()
}

// RecordAuthEvent records an auth flow outcome, e.g. ("login", "failure").
func RecordAuthEvent(event, outcome string) {
	authEvents.WithLabelValues(event, outcome).Inc()
}
