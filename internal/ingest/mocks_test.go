package ingest

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	SQL  string
	Args []any
}

// MockPool implements PgPool for testing. Exec calls are always recorded;
// behavior is scripted through the func fields.
type MockPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Execs        []execCall
}

func (m *MockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return nil, pgx.ErrNoRows
}

func (m *MockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return errRow{pgx.ErrNoRows}
}

func (m *MockPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Execs = append(m.Execs, execCall{SQL: sql, Args: args})
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.NewCommandTag(""), nil
}

// errRow is a pgx.Row whose Scan always fails.
type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

// valueRow is a pgx.Row yielding fixed values.
type valueRow struct{ vals []any }

func (r valueRow) Scan(dest ...any) error {
	for i, v := range r.vals {
		if i >= len(dest) {
			break
		}
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		}
	}
	return nil
}

type resolveCall struct {
	Name       string
	AllianceID string
}

type MockResolver struct {
	ResolveFunc func(ctx context.Context, name, allianceID string) (string, error)
	Calls       []resolveCall
}

func (m *MockResolver) Resolve(ctx context.Context, name, allianceID string) (string, error) {
	m.Calls = append(m.Calls, resolveCall{Name: name, AllianceID: allianceID})
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, name, allianceID)
	}
	return "player-" + name, nil
}

type upsertCall struct {
	PlayerID string
	PhaseID  string
	Fields   []StatField
}

type MockUpserter struct {
	UpsertFunc func(ctx context.Context, playerID, phaseID string, fields []StatField) error
	Calls      []upsertCall
}

func (m *MockUpserter) Upsert(ctx context.Context, playerID, phaseID string, fields []StatField) error {
	m.Calls = append(m.Calls, upsertCall{PlayerID: playerID, PhaseID: phaseID, Fields: fields})
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, playerID, phaseID, fields)
	}
	return nil
}
