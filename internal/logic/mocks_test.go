package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

type queryCall struct {
	SQL  string
	Args []any
}

// MockPool routes queries through injected funcs and records every call.
type MockPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	Queries      []queryCall
}

func (m *MockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.Queries = append(m.Queries, queryCall{SQL: sql, Args: args})
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &mockRows{}, nil
}

func (m *MockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.Queries = append(m.Queries, queryCall{SQL: sql, Args: args})
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return mockRow{err: pgx.ErrNoRows}
}

func (m *MockPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}

// mockRows replays a fixed result set. Unused pgx.Rows methods come from the
// embedded interface and panic if reached.
type mockRows struct {
	pgx.Rows
	data    [][]any
	idx     int
	rowsErr error
}

func (r *mockRows) Next() bool {
	r.idx++
	return r.idx <= len(r.data)
}

func (r *mockRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.idx-1])
}

func (r *mockRows) Err() error { return r.rowsErr }
func (r *mockRows) Close()     {}

type mockRow struct {
	vals []any
	err  error
}

func (r mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

// assign copies mock values into scan destinations. A nil value leaves the
// destination at its zero value, matching a NULL scanned into a pointer.
func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations, %d values", len(dest), len(vals))
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case **string:
			s := v.(string)
			*d = &s
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		case **int64:
			n := v.(int64)
			*d = &n
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			t := v.(time.Time)
			*d = &t
		case *bool:
			*d = v.(bool)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}

// mockRedis is an in-memory stand-in for the cache client.
type mockRedis struct {
	data    map[string]string
	lastTTL time.Duration
	getErr  error
	setErr  error
	delErr  error
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: make(map[string]string)}
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	if v, ok := m.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	m.data[key] = string(value.([]byte))
	m.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if m.delErr != nil {
		return redis.NewIntResult(0, m.delErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *mockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}
