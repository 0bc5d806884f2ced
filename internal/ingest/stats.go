package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StatField pairs a daily_player_stats column with its value for one upsert.
// A nil value writes SQL NULL: a supplied-but-empty cell overwrites, while an
// unsupplied column is left alone entirely.
type StatField struct {
	Column string
	Value  *int64
}

// statColumns whitelists the columns an upload may touch.
var statColumns = map[string]struct{}{
	"power":                {},
	"alliance_ranking":     {},
	"player_rank":          {},
	"furnace_level":        {},
	"world_rank_placement": {},
	"points":               {},
}

// StatWriter performs the per-(player, phase) upsert. The unique constraint
// on daily_player_stats(player_id, event_phase_id) is what makes repeated
// uploads land on one row.
type StatWriter struct {
	db PgPool
}

func NewStatWriter(db PgPool) *StatWriter {
	return &StatWriter{db: db}
}

// Upsert inserts or updates the stat row for (playerID, phaseID). On
// conflict exactly the supplied fields are overwritten; fields set by
// earlier uploads of other kinds stay put. recorded_at is refreshed on
// every write.
func (w *StatWriter) Upsert(ctx context.Context, playerID, phaseID string, fields []StatField) error {
	if len(fields) == 0 {
		return fmt.Errorf("no stat fields supplied")
	}

	cols := make([]string, 0, len(fields))
	args := []any{playerID, phaseID}
	for _, f := range fields {
		if _, ok := statColumns[f.Column]; !ok {
			return fmt.Errorf("unknown stat column %q", f.Column)
		}
		cols = append(cols, f.Column)
		args = append(args, f.Value)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO daily_player_stats (player_id, event_phase_id")
	for _, c := range cols {
		sb.WriteString(", ")
		sb.WriteString(c)
	}
	sb.WriteString(") VALUES ($1, $2")
	for i := range cols {
		fmt.Fprintf(&sb, ", $%d", i+3)
	}
	sb.WriteString(") ON CONFLICT (player_id, event_phase_id) DO UPDATE SET ")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = EXCLUDED.%s", c, c)
	}
	sb.WriteString(", recorded_at = NOW()")

	start := time.Now()
	_, err := w.db.Exec(ctx, sb.String(), args...)
	upsertDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("upsert daily stats: %w", err)
	}
	return nil
}
