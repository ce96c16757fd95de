package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/medscribe/clinical-copilot/internal/api"
	"github.com/medscribe/clinical-copilot/internal/config"
	"github.com/medscribe/clinical-copilot/internal/provider"
	"github.com/medscribe/clinical-copilot/internal/registration"
	"github.com/medscribe/clinical-copilot/internal/server"
	"github.com/medscribe/clinical-copilot/internal/session"
	"github.com/medscribe/clinical-copilot/internal/storage"
	"github.com/medscribe/clinical-copilot/internal/storage/memory"
	"github.com/medscribe/clinical-copilot/internal/storage/sqlite"
	"github.com/medscribe/clinical-copilot/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize OpenTelemetry
	shutdownTracer, err := telemetry.InitTracer("clinical-copilot", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	// Register built-in providers
	registration.RegisterBuiltins()

	deps := provider.Deps{
		Logger:        logger,
		PlaybackSpeed: cfg.Playback.Speed,
	}
	speech, err := provider.NewSpeech(cfg.Providers.Speech, deps)
	if err != nil {
		log.Fatalf("Failed to create speech provider: %v", err)
	}
	reasoner, err := provider.NewReasoner(cfg.Providers.Reasoner, deps)
	if err != nil {
		log.Fatalf("Failed to create reasoner: %v", err)
	}

	var store storage.SnapshotStore
	switch cfg.Storage.Type {
	case "sqlite":
		store, err = sqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		logger.Info("snapshot storage ready",
			slog.String("type", "sqlite"),
			slog.String("path", cfg.Storage.SQLite.Path))
	default:
		store = memory.New()
		logger.Info("snapshot storage ready", slog.String("type", "memory"))
	}

	ctrl, err := session.New(context.Background(), session.Config{
		Logger:   logger,
		Speech:   speech,
		Reasoner: reasoner,
		Store:    store,
		Locale:   cfg.Locale,
	})
	if err != nil {
		log.Fatalf("Failed to initialize session controller: %v", err)
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			logger.Error("failed to close session controller", slog.String("error", err.Error()))
		}
	}()

	srv := server.New(cfg.Server.Port, logger)
	api.New(logger, ctrl).Mount(srv.Router)

	logger.Info("clinical copilot ready",
		slog.String("speech", cfg.Providers.Speech),
		slog.String("reasoner", cfg.Providers.Reasoner),
		slog.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
