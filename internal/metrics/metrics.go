package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth guard rejection reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonUnknownToken = "unknown_token"
	ReasonStoreError   = "store_error"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizfit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quizfit_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// HTTPRequestDurationSeconds observes request latency by method and route.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizfit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AuthRejectionsTotal counts guard rejections by reason.
	AuthRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizfit_auth_rejections_total",
			Help: "Requests rejected by the access token guard",
		},
		[]string{"reason"},
	)

	// RegistrationsTotal counts successful registrations.
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizfit_registrations_total",
			Help: "Total number of successful registrations",
		},
	)

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizfit_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MemberMessagesTotal counts member messages posted.
	MemberMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizfit_member_messages_total",
			Help: "Total number of member messages posted",
		},
	)
)

// Middleware records request counts and latency. Paths are labelled with the
// route template so ids never blow up label cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			HTTPRequestsInFlight.Inc()
			defer HTTPRequestsInFlight.Dec()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusOf(c, err))).Inc()
			HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func statusOf(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
