package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Jenis baris riwayat yang ditulis tracker.
const (
	HistoryMenteeGroup = "mentee_group"
	HistoryGroupMentor = "group_mentor"
)

var (
	Registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejakliqo_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jejakliqo_http_request_duration_seconds",
			Help:    "Latency of HTTP request handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	historyRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejakliqo_history_rows_total",
			Help: "Audit history rows committed, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		historyRowsTotal,
	)
}

// Middleware mencatat jumlah & durasi request per route template.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler untuk GET /metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// ObserveHistoryRows dipanggil setelah transaksi tracker commit.
func ObserveHistoryRows(kind string, n int) {
	if n <= 0 {
		return
	}
	historyRowsTotal.WithLabelValues(kind).Add(float64(n))
}
