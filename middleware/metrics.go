package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Count of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BookingTotal counts courier booking attempts by courier code and outcome.
	BookingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_booking_total",
			Help: "Courier booking attempts by courier and outcome.",
		},
		[]string{"courier", "outcome"},
	)
	// ChallansGenerated counts successfully persisted delivery challans.
	ChallansGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "challans_generated_total",
			Help: "Delivery challans persisted.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, BookingTotal, ChallansGenerated)
}

// MetricsMiddleware records request counts and latencies per route.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		path := c.Path()
		if path == "" {
			path = c.Request().URL.Path
		}
		httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
