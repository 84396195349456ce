package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServerConfig - параметры net/http сервера API.
type ServerConfig struct {
	Address string // host:port
	// ReadTimeout покрывает всё тело запроса, включая multipart с логотипами и обложками
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	Logger          *slog.Logger
}

const (
	defaultAddress         = ":8080"
	defaultShutdownTimeout = 30 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// Server - HTTP сервер API с двухфазной остановкой.
//
// Shutdown сначала ждёт завершения активных запросов. Если за ShutdownTimeout
// они не успели, отменяется базовый context всех запросов (обрываются
// запросы к PostgreSQL и GCS), и соединения закрываются принудительно.
type Server struct {
	srv        *http.Server
	router     *gin.Engine
	logger     *slog.Logger
	drain      time.Duration
	cancelReqs context.CancelFunc
}

func NewServer(cfg ServerConfig, router *gin.Engine) *Server {
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, cancel := context.WithCancel(context.Background())

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Address,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
			BaseContext:       func(net.Listener) context.Context { return base },
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		router:     router,
		logger:     logger,
		drain:      cfg.ShutdownTimeout,
		cancelReqs: cancel,
	}
}

// Router - собранный gin.Engine (нужен тестам для ServeHTTP без сети).
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Addr - адрес из конфигурации.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start слушает Addr() и блокируется до Shutdown.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(lis)
}

// Serve обслуживает готовый listener. После Shutdown возвращает nil.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("http server listening", slog.String("address", lis.Addr().String()))
	err := s.srv.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	started := time.Now()
	drainCtx, cancel := context.WithTimeout(ctx, s.drain)
	defer cancel()

	err := s.srv.Shutdown(drainCtx)
	s.cancelReqs()
	if err == nil {
		s.logger.Info("http server stopped", slog.Duration("took", time.Since(started)))
		return nil
	}

	s.logger.Warn("http drain timed out, closing connections", slog.String("error", err.Error()))
	if closeErr := s.srv.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}
