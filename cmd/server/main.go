package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/residence-booking-backend/internal/app"
	"github.com/nekogravitycat/residence-booking-backend/internal/config"
	"github.com/nekogravitycat/residence-booking-backend/internal/db"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/eventbus"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.New().Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred cleanups execute on all error paths.
func run() error {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithWriter(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, int32(cfg.DBMaxConns))
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Optional settings cache
	rdb, err := cache.NewRedisClient(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn("redis unavailable, settings cache disabled", logger.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func(c *redis.Client) { _ = c.Close() }(rdb)
	}

	// Optional booking events
	var publisher eventbus.Publisher = eventbus.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Warn("rabbitmq unavailable, booking events disabled", logger.Error(err))
		} else {
			defer func() { _ = rabbit.Close() }()
			publisher = rabbit
		}
	}

	container, err := app.NewContainer(cfg, app.Deps{
		DBPool:    pool,
		Redis:     rdb,
		Publisher: publisher,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server running", logger.F("ADDR", cfg.HTTPAddr), logger.F("TZ", cfg.Location.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", logger.Error(err))
	}

	log.Info("server exited gracefully")
	return nil
}
