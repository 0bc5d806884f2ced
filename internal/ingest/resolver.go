package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Resolver maps display names to durable player identities. Players rename
// themselves constantly; the name history log is what keeps their stats on
// one record across renames.
type Resolver struct {
	db     PgPool
	logger *zap.SugaredLogger
}

func NewResolver(db PgPool, logger *zap.Logger) *Resolver {
	return &Resolver{db: db, logger: logger.Sugar()}
}

// Resolve finds or creates the player for a display name. Lookup order:
// exact current-name match, then name-history match (which promotes the
// name back to current), then create. allianceID may be empty.
//
// The steps are separate storage round-trips, not one transaction: two
// concurrent first sightings of the same new name can create two players.
func (r *Resolver) Resolve(ctx context.Context, name, allianceID string) (string, error) {
	playerID, err := r.findByCurrentName(ctx, name, allianceID)
	if err != nil {
		return "", err
	}
	if playerID == "" {
		playerID, err = r.findByHistoricalName(ctx, name, allianceID)
		if err != nil {
			return "", err
		}
	}
	if playerID == "" {
		return r.create(ctx, name, allianceID)
	}
	if err := r.ensureNameInHistory(ctx, playerID, name); err != nil {
		return "", err
	}
	return playerID, nil
}

func (r *Resolver) findByCurrentName(ctx context.Context, name, allianceID string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx,
		`SELECT id FROM players WHERE current_name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("look up player by current name: %w", err)
	}

	// Last write wins; an alliance is only touched when the upload names one.
	if allianceID != "" {
		if _, err := r.db.Exec(ctx,
			`UPDATE players SET alliance_id = $1, updated_at = NOW() WHERE id = $2`,
			allianceID, id); err != nil {
			return "", fmt.Errorf("update player alliance: %w", err)
		}
	}
	return id, nil
}

func (r *Resolver) findByHistoricalName(ctx context.Context, name, allianceID string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		SELECT p.id
		FROM players p
		JOIN player_name_history pnh ON p.id = pnh.player_id
		WHERE pnh.name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("look up player by name history: %w", err)
	}

	// The player has returned to an old name: promote it to current. Unlike
	// the current-name path, the alliance is overwritten unconditionally,
	// clearing it when the upload named none. Asymmetric, but this is the
	// documented behavior uploads rely on.
	r.logger.Infow("Player matched via name history, promoting name",
		"player_id", id, "name", name)
	if _, err := r.db.Exec(ctx,
		`UPDATE players SET current_name = $1, alliance_id = $2, updated_at = NOW() WHERE id = $3`,
		name, nullable(allianceID), id); err != nil {
		return "", fmt.Errorf("promote historical name: %w", err)
	}
	return id, nil
}

func (r *Resolver) create(ctx context.Context, name, allianceID string) (string, error) {
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx,
		`INSERT INTO players (id, current_name, alliance_id) VALUES ($1, $2, $3)`,
		id, name, nullable(allianceID)); err != nil {
		return "", fmt.Errorf("create player: %w", err)
	}
	if _, err := r.db.Exec(ctx,
		`INSERT INTO player_name_history (player_id, name) VALUES ($1, $2)`,
		id, name); err != nil {
		return "", fmt.Errorf("record first name in history: %w", err)
	}
	r.logger.Infow("Created new player", "player_id", id, "name", name)
	return id, nil
}

// ensureNameInHistory keeps the invariant that a player's current name always
// has a history entry, without duplicating one on re-observation.
func (r *Resolver) ensureNameInHistory(ctx context.Context, playerID, name string) error {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM player_name_history WHERE player_id = $1 AND name = $2`,
		playerID, name).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check name history: %w", err)
	}
	if _, err := r.db.Exec(ctx,
		`INSERT INTO player_name_history (player_id, name) VALUES ($1, $2)`,
		playerID, name); err != nil {
		return fmt.Errorf("append name history: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
