package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/fundhub/internal/adapters/http/middleware"
	"github.com/Haleralex/fundhub/internal/pkg/health"
)

// ============================================
// Health Check Handler
// ============================================

// ReadinessChecker - проверка зависимостей (database, redis, nats, storage).
type ReadinessChecker interface {
	Run(ctx context.Context) health.Report
}

// PoolStats - снимок пула соединений БД.
type PoolStats struct {
	Total, Idle, Acquired, Max int32
}

// PoolStatsFunc возвращает статистику пула. nil - БД не настроена.
type PoolStatsFunc func() PoolStats

// HealthHandler обрабатывает health check запросы.
//
// Liveness отвечает, жив ли процесс. Readiness - готов ли он принимать трафик:
// при недоступной зависимости /ready отдаёт 503.
type HealthHandler struct {
	checker   ReadinessChecker
	poolStats PoolStatsFunc
	version   string
	buildTime string
	startTime time.Time
}

// NewHealthHandler создаёт новый HealthHandler.
func NewHealthHandler(checker ReadinessChecker, poolStats PoolStatsFunc, version, buildTime string) *HealthHandler {
	return &HealthHandler{
		checker:   checker,
		poolStats: poolStats,
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
	}
}

// HealthResponse - ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"` // "healthy", "unhealthy"
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessResponse - ответ readiness check.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// RegisterRoutes регистрирует health check маршруты вне /api/v1.
//
// Routes:
// - GET /health          - Basic health check
// - GET /health/detailed - Dependencies and pool stats
// - GET /ready           - Readiness probe
// - GET /live            - Liveness probe
func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.DetailedHealth)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}

// Health возвращает базовый статус без проверки зависимостей.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.response("healthy", nil))
}

// Live - процесс жив.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready проверяет все зависимости.
func (h *HealthHandler) Ready(c *gin.Context) {
	report := h.run(c.Request.Context())

	status := http.StatusOK
	if !report.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ReadinessResponse{
		Ready:     report.Ready,
		Checks:    report.Checks,
		Timestamp: time.Now().UTC(),
	})
}

// DetailedHealth - зависимости плюс статистика пула. Обновляет метрики пула.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	report := h.run(c.Request.Context())

	checks := make(map[string]string, len(report.Checks)+3)
	for name, state := range report.Checks {
		checks[name] = state
	}
	if h.poolStats != nil {
		stats := h.poolStats()
		checks["db_total_conns"] = strconv.Itoa(int(stats.Total))
		checks["db_idle_conns"] = strconv.Itoa(int(stats.Idle))
		checks["db_acquired_conns"] = strconv.Itoa(int(stats.Acquired))
		middleware.UpdateDBConnections(stats.Idle, stats.Acquired, stats.Max)
	}

	status := "healthy"
	if !report.Ready {
		status = "unhealthy"
	}
	c.JSON(http.StatusOK, h.response(status, checks))
}

func (h *HealthHandler) run(ctx context.Context) health.Report {
	if h.checker == nil {
		return health.Report{Ready: true, Checks: map[string]string{}}
	}
	return h.checker.Run(ctx)
}

func (h *HealthHandler) response(status string, checks map[string]string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}
