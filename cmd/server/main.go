package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wos-tracker/events-api/internal/config"
	"github.com/wos-tracker/events-api/internal/database"
	"github.com/wos-tracker/events-api/internal/handlers"
	"github.com/wos-tracker/events-api/internal/ingest"
	"github.com/wos-tracker/events-api/internal/logic"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPgPool(ctx, cfg.PostgresURL, sugar)
	if err != nil {
		sugar.Fatalw("PostgreSQL connection failed", "error", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool, sugar); err != nil {
		sugar.Fatalw("Migrations failed", "error", err)
	}

	rdb, err := database.NewRedis(ctx, cfg.RedisURL, sugar)
	if err != nil {
		sugar.Fatalw("Redis connection failed", "error", err)
	}
	defer rdb.Close()

	h := handlers.New(handlers.Config{
		Postgres:      pool,
		Redis:         rdb,
		Logger:        logger,
		Uploads:       ingest.NewIngestor(pool, logger),
		Dashboard:     logic.NewDashboardService(pool, logger),
		Cache:         logic.NewLeaderboardCache(rdb, cfg.LeaderboardTTL, logger),
		UploadToken:   cfg.UploadToken,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Shutdown failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
