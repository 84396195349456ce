// Package grpc - gRPC сервер со стандартным health v1 сервисом.
// Статус SERVING/NOT_SERVING обновляется по результатам readiness проверок.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName - имя сервиса в health протоколе, помимо общего "".
const ServiceName = "fundhub.api"

// ReadinessFunc сообщает, готовы ли зависимости приложения.
type ReadinessFunc func(ctx context.Context) bool

// Config - параметры gRPC сервера.
type Config struct {
	Address       string
	CheckInterval time.Duration
}

// Server - gRPC сервер с health сервисом.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	ready    ReadinessFunc
	cfg      Config
	logger   *slog.Logger
	listener net.Listener
	stop     chan struct{}
}

// NewServer создаёт сервер. Запросы трассируются через otelgrpc.
func NewServer(cfg Config, ready ReadinessFunc, log *slog.Logger, opts ...grpc.ServerOption) *Server {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	opts = append([]grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}, opts...)
	srv := grpc.NewServer(opts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{
		server: srv,
		health: hs,
		ready:  ready,
		cfg:    cfg,
		logger: log.With("component", "grpc"),
		stop:   make(chan struct{}),
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Listen открывает TCP сокет по адресу из конфигурации.
func (s *Server) Listen() error {
	lis, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	s.listener = lis
	return nil
}

// Serve обслуживает запросы на переданном listener (bufconn в тестах) и
// периодически обновляет health статус. Блокирует до Shutdown.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.refresh(ctx)
	go s.watch(ctx)

	s.logger.InfoContext(ctx, "gRPC server started", "address", lis.Addr().String())
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Start слушает адрес из конфигурации и блокирует до Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	return s.Serve(ctx, s.listener)
}

// Shutdown переводит статус в NOT_SERVING и дожидается завершения активных RPC.
// Если ctx истекает раньше, соединения закрываются принудительно.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

// Refresh немедленно пересчитывает статус (используется после старта зависимостей).
func (s *Server) Refresh(ctx context.Context) {
	s.refresh(ctx)
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Server) refresh(ctx context.Context) {
	if s.ready == nil || s.ready(ctx) {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
		return
	}
	s.logger.WarnContext(ctx, "readiness check failed, reporting NOT_SERVING")
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
