// Package http - REST API FundHub: роутер, HTTP сервер и общие middleware.
//
// Router собирает все handlers и middleware в единую точку входа.
//
// Pattern: Composition Root
// - Handlers получают только нужные им use cases
// - Middleware применяется к соответствующим группам routes
// - Ошибки всегда в формате {"detail", "code", "fields"?}
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/adapters/http/handlers"
	"github.com/Haleralex/fundhub/internal/adapters/http/middleware"
	"github.com/Haleralex/fundhub/internal/application/dtos"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig - конфигурация роутера.
type RouterConfig struct {
	// Logger для middleware
	Logger *slog.Logger
	// ServiceName - имя сервиса в трейсах
	ServiceName string
	// Version приложения
	Version string
	// BuildTime время сборки
	BuildTime string
	// Environment (development, staging, production)
	Environment string
	// AllowedOrigins для CORS (production)
	AllowedOrigins []string
	// RateLimit - глобальный лимит по IP
	RateLimit *middleware.RateLimitConfig
	// AuthRateLimit - отдельный лимит для /auth (подбор паролей)
	AuthRateLimit *middleware.RateLimitConfig
	// MaxMultipartMemory - сколько multipart-данных держать в памяти, остальное во временных файлах
	MaxMultipartMemory int64
	// TokenVerifier проверяет access токен. nil - все защищённые маршруты отвечают 401
	TokenVerifier middleware.TokenVerifier
	// Cookies - флаги cookie с токенами
	Cookies common.CookieConfig
	// Checker - readiness проверки зависимостей
	Checker handlers.ReadinessChecker
	// PoolStats - статистика пула БД для /health/detailed
	PoolStats handlers.PoolStatsFunc
	// MediaRoot - каталог локального хранилища, раздаётся по /media. Пусто - не раздаётся
	MediaRoot string
}

// DefaultRouterConfig - конфигурация по умолчанию для development.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:             slog.Default(),
		ServiceName:        "fundhub",
		Version:            "dev",
		BuildTime:          "unknown",
		Environment:        "development",
		AllowedOrigins:     []string{"*"},
		RateLimit:          middleware.DefaultRateLimitConfig(),
		AuthRateLimit:      DefaultAuthRateLimitConfig(),
		MaxMultipartMemory: 8 << 20,
	}
}

// DefaultAuthRateLimitConfig - 1 rps, burst 5 на IP.
func DefaultAuthRateLimitConfig() *middleware.RateLimitConfig {
	cfg := middleware.DefaultRateLimitConfig()
	cfg.RequestsPerSecond = 1
	cfg.Burst = 5
	return cfg
}

// ============================================
// Use Case Providers
// ============================================

// AuthUseCases - provider для auth use cases.
type AuthUseCases struct {
	Register       handlers.RegisterUseCase
	Login          handlers.LoginUseCase
	ReissueAccess  handlers.ReissueUseCase
	ReissueRefresh handlers.ReissueUseCase
	Verify         handlers.VerifyUseCase
	Logout         handlers.LogoutUseCase
}

// ProjectUseCases - provider для project use cases.
type ProjectUseCases struct {
	Create handlers.CreateProjectUseCase
	Update handlers.UpdateProjectUseCase
	Delete handlers.DeleteProjectUseCase
	Get    handlers.GetProjectUseCase
	List   handlers.ListProjectsUseCase
}

// CompanyUseCases - provider для company use cases.
type CompanyUseCases struct {
	Create handlers.CreateCompanyUseCase
	Get    handlers.GetCompanyUseCase
}

// NewsUseCases - provider для news use cases.
type NewsUseCases struct {
	Create handlers.CreateNewsUseCase
	Update handlers.UpdateNewsUseCase
	Delete handlers.DeleteNewsUseCase
	Get    handlers.GetNewsUseCase
	List   handlers.ListNewsUseCase
}

// UserUseCases - provider для /users/me.
type UserUseCases struct {
	GetProfile    handlers.GetProfileUseCase
	UpdateProfile handlers.UpdateProfileUseCase
	Favorites     handlers.FavoritesUseCase
	MyCompanies   handlers.ListMyCompaniesUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder - builder для создания роутера.
// Группы маршрутов без use cases не регистрируются.
type RouterBuilder struct {
	config    *RouterConfig
	auth      *AuthUseCases
	projects  *ProjectUseCases
	companies *CompanyUseCases
	news      *NewsUseCases
	users     *UserUseCases
	catalog   handlers.CatalogUseCase
}

// NewRouterBuilder создаёт новый builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{config: config}
}

// WithAuthUseCases добавляет auth use cases.
func (b *RouterBuilder) WithAuthUseCases(useCases *AuthUseCases) *RouterBuilder {
	b.auth = useCases
	return b
}

// WithProjectUseCases добавляет project use cases.
func (b *RouterBuilder) WithProjectUseCases(useCases *ProjectUseCases) *RouterBuilder {
	b.projects = useCases
	return b
}

// WithCompanyUseCases добавляет company use cases.
func (b *RouterBuilder) WithCompanyUseCases(useCases *CompanyUseCases) *RouterBuilder {
	b.companies = useCases
	return b
}

// WithNewsUseCases добавляет news use cases.
func (b *RouterBuilder) WithNewsUseCases(useCases *NewsUseCases) *RouterBuilder {
	b.news = useCases
	return b
}

// WithUserUseCases добавляет user use cases.
func (b *RouterBuilder) WithUserUseCases(useCases *UserUseCases) *RouterBuilder {
	b.users = useCases
	return b
}

// WithCatalogUseCase добавляет справочники.
func (b *RouterBuilder) WithCatalogUseCase(useCase handlers.CatalogUseCase) *RouterBuilder {
	b.catalog = useCase
	return b
}

// Build создаёт сконфигурированный Gin Engine.
func (b *RouterBuilder) Build() *gin.Engine {
	cfg := b.config
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if cfg.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = cfg.MaxMultipartMemory
	}

	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	// 1. Recovery - должен быть первым
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           cfg.Logger,
		EnableStackTrace: cfg.Environment != "production",
	}))

	// 2. Request ID
	router.Use(middleware.RequestID())

	// 3. Tracing: span на каждый запрос
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// 4. CORS
	if cfg.Environment == "production" {
		router.Use(middleware.CORS(middleware.StrictCORSPolicy(cfg.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DevelopmentCORSPolicy()))
	}

	// 5. Logging
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    cfg.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics", "/media/*"},
	}))

	// 6. Rate Limiting (global)
	if cfg.RateLimit != nil {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	// 7. Metrics (Prometheus)
	router.Use(middleware.Metrics())

	// ============================================
	// Service Endpoints (no auth)
	// ============================================

	router.GET("/metrics", middleware.MetricsHandler())
	handlers.NewHealthHandler(cfg.Checker, cfg.PoolStats, cfg.Version, cfg.BuildTime).RegisterRoutes(router)
	if cfg.MediaRoot != "" {
		router.Static("/media", cfg.MediaRoot)
	}

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")
	auth := middleware.Auth(b.verifier())

	if b.auth != nil {
		authGroup := v1.Group("")
		if cfg.AuthRateLimit != nil {
			authGroup.Use(middleware.RateLimit(cfg.AuthRateLimit))
		}
		handlers.NewAuthHandler(
			b.auth.Register,
			b.auth.Login,
			b.auth.ReissueAccess,
			b.auth.ReissueRefresh,
			b.auth.Verify,
			b.auth.Logout,
			cfg.Cookies,
		).RegisterRoutes(authGroup)
	}

	if b.projects != nil {
		handlers.NewProjectHandler(
			b.projects.Create,
			b.projects.Update,
			b.projects.Delete,
			b.projects.Get,
			b.projects.List,
		).RegisterRoutes(v1, auth)
	}

	if b.companies != nil {
		handlers.NewCompanyHandler(b.companies.Create, b.companies.Get).RegisterRoutes(v1, auth)
	}

	if b.news != nil {
		handlers.NewNewsHandler(
			b.news.Create,
			b.news.Update,
			b.news.Delete,
			b.news.Get,
			b.news.List,
		).RegisterRoutes(v1, auth)
	}

	if b.users != nil {
		handlers.NewUserHandler(
			b.users.GetProfile,
			b.users.UpdateProfile,
			b.users.Favorites,
			b.users.MyCompanies,
		).RegisterRoutes(v1, auth)
	}

	if b.catalog != nil {
		handlers.NewCatalogHandler(b.catalog).RegisterRoutes(v1)
	}

	// ============================================
	// 404 / 405
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, http.StatusNotFound, common.CodeNotFound, "endpoint not found")
	})
	router.NoMethod(func(c *gin.Context) {
		common.Error(c, http.StatusMethodNotAllowed, common.CodeMethodNotAllowed, "method not allowed")
	})

	return router
}

func (b *RouterBuilder) verifier() middleware.TokenVerifier {
	if b.config.TokenVerifier != nil {
		return b.config.TokenVerifier
	}
	return rejectAllVerifier{}
}

// rejectAllVerifier - без настроенной проверки токенов защищённые маршруты закрыты.
type rejectAllVerifier struct{}

func (rejectAllVerifier) Execute(context.Context, string) (*dtos.TokenClaimsDTO, error) {
	return nil, domainerrors.ErrNotAuthenticated
}

// NewRouter создаёт роутер без use cases (только служебные маршруты).
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}
