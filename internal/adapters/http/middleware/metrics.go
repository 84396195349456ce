package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "fundhub"

// unmatchedRoute - label для запросов мимо зарегистрированных маршрутов,
// чтобы произвольные URL не раздували кардинальность.
const unmatchedRoute = "unmatched"

// ============================================
// HTTP
// ============================================

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
	}, []string{"method", "route"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	// Тела запросов: в основном multipart с обложками и логотипами
	httpRequestBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_size_bytes",
		Help:      "Size of HTTP request bodies with a known length.",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 9), // 256B .. 16MB
	}, []string{"method", "route"})

	httpResponseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "Size of HTTP response bodies.",
		Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
	}, []string{"method", "route"})

	// ErrorsTotal - ответы 4xx/5xx по статусу
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "API error responses by HTTP status.",
	}, []string{"status"})
)

// ============================================
// Business / DB
// ============================================

// Business event labels.
const (
	EventProjectCreated = "project_created"
	EventProjectDeleted = "project_deleted"
	EventCompanyCreated = "company_created"
	EventUserRegistered = "user_registered"
	EventNewsPublished  = "news_published"
)

var (
	// BusinessEventsTotal - завершённые бизнес-операции по виду события
	BusinessEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "business",
		Name:      "events_total",
		Help:      "Completed business operations by event.",
	}, []string{"event"})

	// DBPoolConnections - снимок pgxpool, обновляется из /health/detailed
	DBPoolConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "db",
		Name:      "pool_connections",
		Help:      "Database pool connections by state.",
	}, []string{"state"})
)

// Metrics собирает HTTP-метрики по шаблону маршрута (/api/v1/projects/:id),
// а не по фактическому пути. /metrics и раздача /media не учитываются.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/metrics" || strings.HasPrefix(path, "/media/") {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		httpInFlight.Inc()
		started := time.Now()
		defer httpInFlight.Dec()

		c.Next()

		status := c.Writer.Status()
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpLatency.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
		httpResponseBytes.WithLabelValues(method, route).Observe(float64(max(c.Writer.Size(), 0)))
		if c.Request.ContentLength > 0 {
			httpRequestBytes.WithLabelValues(method, route).Observe(float64(c.Request.ContentLength))
		}
		if status >= 400 {
			ErrorsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		}
	}
}

// MetricsHandler отдаёт /metrics в формате Prometheus.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordBusinessEvent увеличивает счётчик бизнес-события.
func RecordBusinessEvent(event string) {
	BusinessEventsTotal.WithLabelValues(event).Inc()
}

// UpdateDBConnections выставляет gauge пула.
func UpdateDBConnections(idle, inUse, max int32) {
	for state, v := range map[string]int32{"idle": idle, "in_use": inUse, "max": max} {
		DBPoolConnections.WithLabelValues(state).Set(float64(v))
	}
}
