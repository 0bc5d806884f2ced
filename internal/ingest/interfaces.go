package ingest

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PlayerResolver maps a display name from a CSV row to a durable player id.
type PlayerResolver interface {
	Resolve(ctx context.Context, name, allianceID string) (string, error)
}

// StatUpserter writes a partial stat record for one (player, phase) pair.
type StatUpserter interface {
	Upsert(ctx context.Context, playerID, phaseID string, fields []StatField) error
}
