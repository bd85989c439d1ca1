package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/scandelta/api/internal/app"
	"github.com/scandelta/api/internal/config"
	"github.com/scandelta/api/internal/infra/http"
	"github.com/scandelta/api/internal/infra/http/handler"
	"github.com/scandelta/api/internal/infra/http/routes"
	"github.com/scandelta/api/internal/infra/memory"
	"github.com/scandelta/api/internal/infra/redis"
	"github.com/scandelta/api/pkg/domain/session"
	"github.com/scandelta/api/pkg/logger"
	"github.com/scandelta/api/pkg/validator"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := initLogger(cfg)
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	// Session store: Redis when enabled, in-process memory otherwise.
	var (
		repo        session.Repository
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.New(&cfg.Redis, log)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			return 1
		}
		defer closeWithLog(redisClient, "redis", log)

		repo, err = redis.NewSessionRepository(redisClient, cfg.Session.TTL)
		if err != nil {
			log.Error("failed to initialize redis session store", "error", err)
			return 1
		}
		log.Info("redis session store initialized")
	} else {
		repo = memory.NewSessionRepository(cfg.Session.TTL)
		log.Info("in-memory session store initialized")
	}

	sessionService := app.NewSessionService(repo, nil, log)
	exportService := app.NewExportService()

	v := validator.New()
	healthOpts := []handler.HealthHandlerOption{}
	if redisClient != nil {
		healthOpts = append(healthOpts, handler.WithRedis(redisClient))
	}

	handlers := routes.Handlers{
		Health:  handler.NewHealthHandler(healthOpts...),
		Session: handler.NewSessionHandler(sessionService, v, log),
		Export:  handler.NewExportHandler(sessionService, exportService, log),
	}

	server := http.NewServer(cfg, log)
	routes.Register(server.Router(), handlers)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", "error", err)
		return 1
	}

	log.Info("shutdown complete")
	return 0
}

func initLogger(cfg *config.Config) *logger.Logger {
	var log *logger.Logger
	if cfg.IsProduction() {
		log = logger.New(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		})
	} else {
		log = logger.NewDevelopment()
	}
	log.SetDefault()
	return log
}

type closer interface {
	Close() error
}

func closeWithLog(c closer, name string, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
