package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// NewPgPool opens a connection pool and verifies it with a ping.
func NewPgPool(ctx context.Context, url string, logger *zap.SugaredLogger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Infow("Connected to PostgreSQL")
	return pool, nil
}

// Migrate applies the embedded goose migrations through the pool.
func Migrate(pool *pgxpool.Pool, logger *zap.SugaredLogger) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Infow("Migrations completed")
	return nil
}

// RunGoose executes one goose command (up, down, status, version) against an
// already-open database handle. Used by cmd/migrate.
func RunGoose(command string, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.RunContext(context.Background(), command, db, "migrations")
}

// NewRedis connects a Redis client from a URL and verifies it with a ping.
func NewRedis(ctx context.Context, url string, logger *zap.SugaredLogger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Infow("Connected to Redis")
	return client, nil
}
