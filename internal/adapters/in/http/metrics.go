package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and fulfillment counters exposed on /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	scans           *prometheus.CounterVec
	upsellDecisions *prometheus.CounterVec
	releases        *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// and prometheus.DefaultGatherer in production.
func NewMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_ms",
				Help:    "Duration of HTTP requests in ms",
				Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
			},
			[]string{"method", "path"},
		),
		scans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_scans_total",
				Help: "Barcode scans by result",
			},
			[]string{"result"},
		),
		upsellDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_upsell_decisions_total",
				Help: "Recorded up-sell decisions",
			},
			[]string{"decision"},
		),
		releases: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_order_releases_total",
				Help: "Orders released to production",
			},
			[]string{"kind"},
		),
	}
}

// Middleware records count and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if !c.Response().Committed && err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			m.httpRequests.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(c.Request().Method, path).
				Observe(float64(time.Since(start).Milliseconds()))
			return err
		}
	}
}

func (m *Metrics) scanned(result string) {
	m.scans.WithLabelValues(result).Inc()
}

func (m *Metrics) decided(decision string) {
	m.upsellDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) released(kind string) {
	m.releases.WithLabelValues(kind).Inc()
}
