// Package container - Dependency Injection container FundHub.
//
// Container управляет жизненным циклом всех зависимостей:
// - Создание (Initialize / Builder)
// - Доступ (getters)
// - Закрытие (Shutdown)
//
// Pattern: Composition Root
// - Все зависимости собираются в одном месте
// - Внешние сервисы (redis, nats, gcs) подключаются только если включены в конфигурации
package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	grpcadapter "github.com/Haleralex/fundhub/internal/adapters/grpc"
	"github.com/Haleralex/fundhub/internal/adapters/http"
	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/adapters/http/handlers"
	"github.com/Haleralex/fundhub/internal/adapters/http/middleware"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/application/usecases/auth"
	"github.com/Haleralex/fundhub/internal/application/usecases/catalog"
	"github.com/Haleralex/fundhub/internal/application/usecases/company"
	"github.com/Haleralex/fundhub/internal/application/usecases/news"
	"github.com/Haleralex/fundhub/internal/application/usecases/project"
	"github.com/Haleralex/fundhub/internal/application/usecases/user"
	"github.com/Haleralex/fundhub/internal/config"
	"github.com/Haleralex/fundhub/internal/infrastructure/cache"
	"github.com/Haleralex/fundhub/internal/infrastructure/messaging"
	"github.com/Haleralex/fundhub/internal/infrastructure/persistence/postgres"
	"github.com/Haleralex/fundhub/internal/infrastructure/security"
	"github.com/Haleralex/fundhub/internal/infrastructure/storage"
	"github.com/Haleralex/fundhub/internal/pkg/health"
	"github.com/Haleralex/fundhub/internal/pkg/logger"
)

// Database - то, что контейнеру нужно от пула: запросы, транзакции и ping.
// *pgxpool.Pool в проде, pgxmock в тестах.
type Database interface {
	postgres.DB
	Ping(ctx context.Context) error
}

// pinger - зависимость, умеющая проверить своё состояние.
type pinger interface {
	Ping(ctx context.Context) error
}

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	db          Database
	pool        *pgxpool.Pool
	redis       *redis.Client
	nats        *messaging.NATSPublisher
	fileStorage ports.FileStorage
	mediaRoot   string
	revocations ports.TokenRevocationStore
	closers     []func() error

	// Repositories
	userRepo     *postgres.UserRepository
	roleRepo     *postgres.RoleRepository
	companyRepo  *postgres.CompanyRepository
	projectRepo  *postgres.ProjectRepository
	memberRepo   *postgres.TeamMemberRepository
	phoneRepo    *postgres.ProjectPhoneRepository
	linkRepo     *postgres.ProjectSocialLinkRepository
	newsRepo     *postgres.NewsRepository
	favoriteRepo *postgres.FavoriteRepository
	catalogRepo  *postgres.CatalogRepository
	outboxRepo   *postgres.OutboxRepository

	// Unit of Work
	uow ports.UnitOfWork

	// Event Publisher (outbox в той же транзакции)
	eventPublisher ports.EventPublisher

	// Services
	userService       *services.UserService
	tokenService      *services.TokenService
	permissionService *services.PermissionService
	companyService    *services.CompanyService
	projectService    *services.ProjectService

	// Use Cases
	authUseCases    *http.AuthUseCases
	projectUseCases *http.ProjectUseCases
	companyUseCases *http.CompanyUseCases
	newsUseCases    *http.NewsUseCases
	userUseCases    *http.UserUseCases
	catalogUseCase  *catalog.ListCatalogUseCase
	verifyUseCase   *auth.VerifyTokenUseCase

	// Background
	relay   *messaging.OutboxRelay
	checker *health.Checker

	// Servers
	httpServer *http.Server
	grpcServer *grpcadapter.Server
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости.
// При ошибке уже открытые соединения закрываются.
func (c *Container) Initialize(ctx context.Context) error {
	if c.logger == nil {
		c.logger = c.initLogger()
	}
	c.logger.Info("Initializing application container...")

	if err := c.initInfrastructure(ctx); err != nil {
		c.closeAll()
		return err
	}

	if err := c.initApplication(); err != nil {
		c.closeAll()
		return err
	}

	c.logger.Info("Container initialization complete")
	return nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	// 1. Database
	if c.db == nil {
		if err := c.initDatabase(ctx); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.logger.Info("Database connected")
	}

	// 2. Redis (revocation store)
	if err := c.initRevocationStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	// 3. NATS
	if err := c.initMessaging(); err != nil {
		return fmt.Errorf("failed to initialize nats: %w", err)
	}

	// 4. File storage
	if c.fileStorage == nil {
		if err := c.initStorage(ctx); err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	return nil
}

func (c *Container) initApplication() error {
	c.initRepositories()
	c.logger.Info("Repositories initialized")

	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	c.initUseCases()
	c.logger.Info("Use cases initialized")

	c.initRelay()
	c.initHealth()
	c.initHTTPServer()
	c.initGRPCServer()
	return nil
}

// initLogger инициализирует логгер.
func (c *Container) initLogger() *slog.Logger {
	return logger.Setup(&logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:      os.Stdout,
		AddSource:   c.config.App.Debug,
		Service:     "fundhub-api",
		Environment: c.config.App.Environment,
	})
}

// initDatabase инициализирует пул соединений.
func (c *Container) initDatabase(ctx context.Context) error {
	db := c.config.Database
	pool, err := postgres.NewConnectionPool(ctx, postgres.PoolConfig{
		DSN:             db.DSN(),
		ApplicationName: c.config.App.Name,
		MaxConns:        db.MaxConnections,
		MinConns:        db.MinConnections,
		MaxConnLifetime: db.MaxConnLifetime,
		MaxConnIdleTime: db.MaxConnIdleTime,
		ConnectTimeout:  db.ConnectTimeout,
	})
	if err != nil {
		return err
	}

	c.pool = pool
	c.db = pool
	c.closers = append(c.closers, func() error {
		pool.Close()
		return nil
	})
	return nil
}

// initRevocationStore - Redis, если включён, иначе хранилище в памяти.
func (c *Container) initRevocationStore(ctx context.Context) error {
	if c.revocations != nil {
		return nil
	}
	if !c.config.Redis.Enabled {
		c.logger.Warn("Redis disabled: refresh token revocation is kept in memory")
		c.revocations = cache.NewMemoryRevocationStore()
		return nil
	}

	rc := c.config.Redis
	client, err := cache.NewClient(ctx, cache.Config{
		Addr:         rc.Addr,
		Password:     rc.Password,
		DB:           rc.DB,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
		PoolSize:     rc.PoolSize,
	})
	if err != nil {
		return err
	}

	c.redis = client
	c.revocations = cache.NewRedisRevocationStore(client)
	c.closers = append(c.closers, client.Close)
	c.logger.Info("Redis connected", slog.String("addr", rc.Addr))
	return nil
}

// initMessaging подключается к NATS. Без NATS события копятся в outbox.
func (c *Container) initMessaging() error {
	if !c.config.NATS.Enabled {
		c.logger.Warn("NATS disabled: domain events stay in outbox")
		return nil
	}

	nc := c.config.NATS
	publisher, err := messaging.NewNATSPublisher(messaging.NATSConfig{
		URL:           nc.URL,
		Name:          nc.ClientName,
		MaxReconnects: nc.MaxReconnects,
		ReconnectWait: nc.ReconnectWait,
		Timeout:       nc.Timeout,
	}, c.logger)
	if err != nil {
		return err
	}

	c.nats = publisher
	c.closers = append(c.closers, publisher.Close)
	c.logger.Info("NATS connected", slog.String("url", nc.URL))
	return nil
}

// initStorage выбирает драйвер файлового хранилища.
func (c *Container) initStorage(ctx context.Context) error {
	sc := c.config.Storage

	switch sc.Driver {
	case config.StorageDriverGCS:
		gcsCfg := storage.GCSConfig{
			Bucket:          sc.Bucket,
			CredentialsFile: sc.CredentialsFile,
			SignedURLTTL:    sc.SignedURLTTL,
			GoogleAccessID:  sc.GoogleAccessID,
		}
		if sc.PrivateKeyFile != "" {
			key, err := os.ReadFile(sc.PrivateKeyFile)
			if err != nil {
				return fmt.Errorf("failed to read signing key: %w", err)
			}
			gcsCfg.PrivateKey = key
		}

		gcs, err := storage.NewGCSStorage(ctx, gcsCfg)
		if err != nil {
			return err
		}
		c.fileStorage = gcs
		c.closers = append(c.closers, gcs.Close)
		c.logger.Info("GCS storage configured", slog.String("bucket", sc.Bucket))

	case config.StorageDriverLocal:
		local, err := storage.NewLocalStorage(sc.LocalRoot, sc.LocalBaseURL)
		if err != nil {
			return err
		}
		c.fileStorage = local
		c.mediaRoot = local.Root()
		c.logger.Info("Local storage configured", slog.String("root", sc.LocalRoot))

	default:
		return fmt.Errorf("unknown storage driver: %q", sc.Driver)
	}
	return nil
}

// initRepositories инициализирует репозитории.
func (c *Container) initRepositories() {
	c.userRepo = postgres.NewUserRepository(c.db)
	c.roleRepo = postgres.NewRoleRepository(c.db)
	c.companyRepo = postgres.NewCompanyRepository(c.db)
	c.projectRepo = postgres.NewProjectRepository(c.db)
	c.memberRepo = postgres.NewTeamMemberRepository(c.db)
	c.phoneRepo = postgres.NewProjectPhoneRepository(c.db)
	c.linkRepo = postgres.NewProjectSocialLinkRepository(c.db)
	c.newsRepo = postgres.NewNewsRepository(c.db)
	c.favoriteRepo = postgres.NewFavoriteRepository(c.db)
	c.catalogRepo = postgres.NewCatalogRepository(c.db)
	c.outboxRepo = postgres.NewOutboxRepository(c.db)

	// Unit of Work
	c.uow = postgres.NewUnitOfWork(c.db)

	// Event Publisher (OutboxRepository реализует интерфейс)
	if c.eventPublisher == nil {
		c.eventPublisher = c.outboxRepo
	}
}

// initServices инициализирует domain services.
func (c *Container) initServices() error {
	signer, err := security.NewJWTSigner(c.config.Auth.JWTSecret)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(c.config.Auth.BcryptCost)

	c.userService = services.NewUserService(c.userRepo, c.roleRepo, hasher)
	c.tokenService = services.NewTokenService(signer, c.config.Auth.AccessTokenExpiry, c.config.Auth.RefreshTokenExpiry)
	c.permissionService = services.NewPermissionService(c.userRepo, c.roleRepo)
	c.companyService = services.NewCompanyService(c.companyRepo, c.userRepo, c.catalogRepo)
	c.projectService = services.NewProjectService(c.projectRepo, c.userRepo, c.companyRepo, c.catalogRepo, c.fileStorage)
	return nil
}

// initUseCases инициализирует use cases.
func (c *Container) initUseCases() {
	// Auth
	c.verifyUseCase = auth.NewVerifyTokenUseCase(c.tokenService)
	c.authUseCases = &http.AuthUseCases{
		Register:       auth.NewRegisterUseCase(c.userService, c.eventPublisher, c.uow, c.logger),
		Login:          auth.NewLoginUseCase(c.userService, c.tokenService, c.logger),
		ReissueAccess:  auth.NewReissueAccessUseCase(c.userRepo, c.tokenService, c.revocations),
		ReissueRefresh: auth.NewReissueRefreshUseCase(c.userRepo, c.tokenService, c.revocations, c.logger),
		Verify:         c.verifyUseCase,
		Logout:         auth.NewLogoutUseCase(c.tokenService, c.revocations, c.logger),
	}

	// Projects
	c.projectUseCases = &http.ProjectUseCases{
		Create: project.NewCreateProjectUseCase(
			c.projectService,
			c.memberRepo,
			c.phoneRepo,
			c.linkRepo,
			c.fileStorage,
			c.eventPublisher,
			c.uow,
			c.logger,
		),
		Update: project.NewUpdateProjectUseCase(c.projectService, c.eventPublisher, c.uow),
		Delete: project.NewDeleteProjectUseCase(c.projectService, c.fileStorage, c.eventPublisher, c.uow, c.logger),
		Get:    project.NewGetProjectUseCase(c.projectService, c.memberRepo, c.phoneRepo, c.linkRepo, c.fileStorage),
		List:   project.NewListProjectsUseCase(c.projectService),
	}

	// Companies
	c.companyUseCases = &http.CompanyUseCases{
		Create: company.NewCreateCompanyUseCase(c.companyService, c.eventPublisher, c.uow, c.logger),
		Get:    company.NewGetCompanyUseCase(c.companyService),
	}

	// News
	c.newsUseCases = &http.NewsUseCases{
		Create: news.NewCreateNewsUseCase(c.newsRepo, c.projectRepo, c.permissionService, c.eventPublisher, c.uow, c.logger),
		Update: news.NewUpdateNewsUseCase(c.newsRepo, c.projectRepo, c.permissionService, c.uow),
		Delete: news.NewDeleteNewsUseCase(c.newsRepo, c.permissionService, c.uow),
		Get:    news.NewGetNewsUseCase(c.newsRepo),
		List:   news.NewListNewsUseCase(c.newsRepo),
	}

	// Users
	c.userUseCases = &http.UserUseCases{
		GetProfile:    user.NewGetProfileUseCase(c.userService),
		UpdateProfile: user.NewUpdateProfileUseCase(c.userService, c.uow),
		Favorites:     user.NewFavoritesUseCase(c.favoriteRepo, c.projectRepo),
		MyCompanies:   company.NewListMyCompaniesUseCase(c.companyService),
	}

	// Catalog
	c.catalogUseCase = catalog.NewListCatalogUseCase(c.catalogRepo)
}

// initRelay создаёт outbox relay, если есть брокер.
func (c *Container) initRelay() {
	if c.nats == nil {
		return
	}

	oc := c.config.Outbox
	c.relay = messaging.NewOutboxRelay(c.outboxRepo, c.uow, c.nats, messaging.RelayConfig{
		PollInterval:    oc.PollInterval,
		BatchSize:       oc.BatchSize,
		MaxRetries:      oc.MaxRetries,
		CleanupInterval: oc.CleanupInterval,
		RetainPublished: oc.RetainPublished,
	}, c.logger)
}

// initHealth собирает readiness проверки. Выключенные зависимости - not_configured.
func (c *Container) initHealth() {
	checks := map[string]health.CheckFunc{
		"database": c.db.Ping,
		"redis":    nil,
		"nats":     nil,
		"storage":  nil,
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.redis.Ping(ctx).Err() }
	}
	if c.nats != nil {
		checks["nats"] = c.nats.Ping
	}
	if p, ok := c.fileStorage.(pinger); ok {
		checks["storage"] = p.Ping
	}

	c.checker = health.NewChecker(0, checks)
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() {
	routerConfig := http.DefaultRouterConfig()
	routerConfig.Logger = c.logger
	routerConfig.ServiceName = "fundhub"
	routerConfig.Version = c.config.App.Version
	routerConfig.BuildTime = c.config.App.BuildTime
	routerConfig.Environment = c.config.App.Environment
	routerConfig.AllowedOrigins = c.config.CORS.AllowedOrigins
	routerConfig.MaxMultipartMemory = c.config.Server.MaxMultipartMemory
	routerConfig.TokenVerifier = c.verifyUseCase
	routerConfig.Cookies = common.CookieConfig{
		Domain: c.config.Auth.CookieDomain,
		Secure: c.config.Auth.CookieSecure,
	}
	routerConfig.Checker = c.checker
	routerConfig.PoolStats = c.poolStats
	routerConfig.MediaRoot = c.mediaRoot

	if rl := c.config.RateLimit; rl.Enabled {
		routerConfig.RateLimit = &middleware.RateLimitConfig{
			RequestsPerSecond: rl.RequestsPerSecond,
			Burst:             rl.Burst,
			IdleTTL:           rl.IdleTTL,
			KeyFunc:           middleware.ClientIPKey,
		}
		routerConfig.AuthRateLimit = &middleware.RateLimitConfig{
			RequestsPerSecond: rl.AuthPerSecond,
			Burst:             rl.AuthBurst,
			IdleTTL:           rl.IdleTTL,
			KeyFunc:           middleware.ClientIPKey,
		}
	} else {
		routerConfig.RateLimit = nil
		routerConfig.AuthRateLimit = nil
	}

	router := http.NewRouterBuilder(routerConfig).
		WithAuthUseCases(c.authUseCases).
		WithProjectUseCases(c.projectUseCases).
		WithCompanyUseCases(c.companyUseCases).
		WithNewsUseCases(c.newsUseCases).
		WithUserUseCases(c.userUseCases).
		WithCatalogUseCase(c.catalogUseCase).
		Build()

	c.httpServer = http.NewServer(http.ServerConfig{
		Address:         c.config.Server.Address(),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		MaxHeaderBytes:  1 << 20,
		Logger:          c.logger,
	}, router)
}

// initGRPCServer инициализирует gRPC health сервер.
func (c *Container) initGRPCServer() {
	if !c.config.GRPC.Enabled {
		return
	}
	c.grpcServer = grpcadapter.NewServer(grpcadapter.Config{
		Address:       c.config.GRPC.Address(),
		CheckInterval: c.config.GRPC.CheckInterval,
	}, c.checker.Ready, c.logger)
}

// poolStats - статистика pgxpool для /health/detailed; без пула нули.
func (c *Container) poolStats() handlers.PoolStats {
	if c.pool == nil {
		return handlers.PoolStats{}
	}
	stats := postgres.GetPoolStats(c.pool)
	return handlers.PoolStats{
		Total:    stats.Total,
		Idle:     stats.Idle,
		Acquired: stats.Acquired,
		Max:      stats.Max,
	}
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Pool возвращает пул соединений к БД (nil, если БД передана через Builder).
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// GRPCServer возвращает gRPC сервер (nil, если выключен).
func (c *Container) GRPCServer() *grpcadapter.Server {
	return c.grpcServer
}

// OutboxRelay возвращает relay (nil без NATS).
func (c *Container) OutboxRelay() *messaging.OutboxRelay {
	return c.relay
}

// HealthChecker возвращает readiness проверки.
func (c *Container) HealthChecker() *health.Checker {
	return c.checker
}

// FileStorage возвращает файловое хранилище.
func (c *Container) FileStorage() ports.FileStorage {
	return c.fileStorage
}

// UnitOfWork возвращает Unit of Work.
func (c *Container) UnitOfWork() ports.UnitOfWork {
	return c.uow
}

// AuthUseCases возвращает auth use cases.
func (c *Container) AuthUseCases() *http.AuthUseCases {
	return c.authUseCases
}

// ProjectUseCases возвращает project use cases.
func (c *Container) ProjectUseCases() *http.ProjectUseCases {
	return c.projectUseCases
}

// ============================================
// Shutdown
// ============================================

// Shutdown выполняет graceful shutdown всех компонентов.
// Сначала серверы (перестают принимать запросы), затем соединения.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.grpcServer != nil {
		if err := c.grpcServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("grpc server shutdown: %w", err))
		}
	}

	if err := c.closeAll(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	c.logger.Info("Container shutdown complete")
	return nil
}

// closeAll закрывает соединения в обратном порядке открытия.
func (c *Container) closeAll() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// ============================================
// Builder Pattern
// ============================================

// ContainerBuilder - builder для создания контейнера с кастомными компонентами.
type ContainerBuilder struct {
	cfg            *config.Config
	logger         *slog.Logger
	db             Database
	storage        ports.FileStorage
	revocations    ports.TokenRevocationStore
	eventPublisher ports.EventPublisher
}

// NewBuilder создаёт новый builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger устанавливает кастомный логгер.
func (b *ContainerBuilder) WithLogger(logger *slog.Logger) *ContainerBuilder {
	b.logger = logger
	return b
}

// WithDatabase устанавливает готовое подключение (пул или pgxmock).
func (b *ContainerBuilder) WithDatabase(db Database) *ContainerBuilder {
	b.db = db
	return b
}

// WithPool устанавливает готовый пул соединений.
func (b *ContainerBuilder) WithPool(pool *pgxpool.Pool) *ContainerBuilder {
	b.db = pool
	return b
}

// WithFileStorage устанавливает кастомное хранилище.
func (b *ContainerBuilder) WithFileStorage(fs ports.FileStorage) *ContainerBuilder {
	b.storage = fs
	return b
}

// WithRevocationStore устанавливает кастомное хранилище отозванных токенов.
func (b *ContainerBuilder) WithRevocationStore(store ports.TokenRevocationStore) *ContainerBuilder {
	b.revocations = store
	return b
}

// WithEventPublisher устанавливает кастомный event publisher.
func (b *ContainerBuilder) WithEventPublisher(ep ports.EventPublisher) *ContainerBuilder {
	b.eventPublisher = ep
	return b
}

// Build создаёт и инициализирует контейнер.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	c := New(b.cfg)
	c.logger = b.logger
	c.db = b.db
	if pool, ok := b.db.(*pgxpool.Pool); ok {
		c.pool = pool
	}
	c.fileStorage = b.storage
	c.revocations = b.revocations
	c.eventPublisher = b.eventPublisher

	if err := c.Initialize(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
