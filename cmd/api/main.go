package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Haleralex/fundhub/internal/config"
	"github.com/Haleralex/fundhub/internal/container"
	"github.com/Haleralex/fundhub/internal/pkg/telemetry"
)

// Заполняются при сборке: -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = ""
	buildTime = ""
)

func main() {
	if err := run(); err != nil {
		slog.Error("FundHub API stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs", "Directory with config.yaml")
	flag.Parse()

	// 1. Configuration (.env -> config file -> FUNDHUB_* env)
	cfg, err := config.Load(*configPath, "config")
	if err != nil {
		return err
	}
	if version != "" {
		cfg.App.Version = version
	}
	if buildTime != "" {
		cfg.App.BuildTime = buildTime
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Tracing
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "fundhub-api",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return err
	}

	// 3. Dependencies
	app := container.New(cfg)
	if err := app.Initialize(ctx); err != nil {
		return err
	}
	logger := app.Logger()

	logger.Info("Starting FundHub API",
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("http", cfg.Server.Address()),
	)

	// 4. Servers and background workers
	g, gctx := errgroup.WithContext(ctx)

	g.Go(app.HTTPServer().Start)

	if grpcServer := app.GRPCServer(); grpcServer != nil {
		g.Go(func() error { return grpcServer.Start(gctx) })
	}

	if relay := app.OutboxRelay(); relay != nil {
		g.Go(func() error { return relay.Run(gctx) })
	}

	// 5. Graceful shutdown: по сигналу или при падении любого компонента
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
		defer cancel()

		err := app.Shutdown(shutdownCtx)
		if tErr := shutdownTracing(shutdownCtx); tErr != nil {
			logger.Warn("Tracing shutdown failed", slog.String("error", tErr.Error()))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("FundHub API stopped gracefully")
	return nil
}
