package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wos-tracker/events-api/internal/models"
)

// DashboardService serves the read side: leaderboards, player profiles and
// cross-event history, alias-merged power deltas, event listings. Aliases
// are consumed read-only here; linking accounts is an admin concern.
type DashboardService struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewDashboardService(pg PgPool, logger *zap.Logger) *DashboardService {
	return &DashboardService{pg: pg, logger: logger.Sugar()}
}

// PhaseLeaderboard returns every stat row of a phase joined with player and
// alliance, plus the same player's power in the previous phase and the prep
// phase (phase_order 0) of the same event. The returned player id is the
// alias-canonical one, so two linked accounts point at the same profile.
func (s *DashboardService) PhaseLeaderboard(ctx context.Context, phaseID string) ([]models.LeaderboardRow, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT
			s.id,
			COALESCE(a1.main_player_id, p.id) AS player_id,
			p.current_name,
			p.alliance_id,
			al.name,
			al.tag,
			s.alliance_ranking,
			s.power,
			s.player_rank,
			s.furnace_level,
			s.world_rank_placement,
			s.points,
			s.recorded_at,
			prev.power AS previous_phase_power,
			prep.power AS prep_phase_power
		FROM daily_player_stats s
		JOIN players p ON p.id = s.player_id
		JOIN event_phases ph ON ph.id = s.event_phase_id
		LEFT JOIN alliances al ON al.id = p.alliance_id
		LEFT JOIN player_aliases a1 ON a1.alt_player_id = p.id
		LEFT JOIN event_phases prev_ph
			ON prev_ph.event_id = ph.event_id AND prev_ph.phase_order = ph.phase_order - 1
		LEFT JOIN daily_player_stats prev
			ON prev.event_phase_id = prev_ph.id AND prev.player_id = s.player_id
		LEFT JOIN event_phases prep_ph
			ON prep_ph.event_id = ph.event_id AND prep_ph.phase_order = 0 AND prep_ph.id != ph.id
		LEFT JOIN daily_player_stats prep
			ON prep.event_phase_id = prep_ph.id AND prep.player_id = s.player_id
		WHERE s.event_phase_id = $1
		ORDER BY s.power DESC NULLS LAST, p.current_name
	`, phaseID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var board []models.LeaderboardRow
	for rows.Next() {
		var r models.LeaderboardRow
		if err := rows.Scan(&r.StatID, &r.PlayerID, &r.PlayerName,
			&r.AllianceID, &r.AllianceName, &r.AllianceTag,
			&r.AllianceRanking, &r.Power, &r.PlayerRank, &r.FurnaceLevel,
			&r.WorldRankPlacement, &r.Points, &r.RecordedAt,
			&r.PreviousPhasePower, &r.PrepPhasePower); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		board = append(board, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard rows: %w", err)
	}
	return board, nil
}

// ExistingData reports how many stat rows a phase already has, optionally
// narrowed to one alliance, so the UI can warn before a re-upload.
func (s *DashboardService) ExistingData(ctx context.Context, phaseID, allianceID string) (*models.ExistingDataCheck, error) {
	query := `
		SELECT COUNT(*)
		FROM daily_player_stats s
		JOIN players p ON p.id = s.player_id
		WHERE s.event_phase_id = $1`
	args := []any{phaseID}
	if allianceID != "" {
		query += ` AND p.alliance_id = $2`
		args = append(args, allianceID)
	}

	var count int64
	if err := s.pg.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("existing data check: %w", err)
	}

	check := &models.ExistingDataCheck{HasData: count > 0, Count: count}
	if check.HasData {
		check.Message = fmt.Sprintf("%d players already have data for this phase. Uploading again will overwrite their stats.", count)
	} else {
		check.Message = "No existing data for this phase."
	}
	return check, nil
}

// PlayerProfile assembles the player row, their full name history, and their
// cross-event stat history. The three reads run concurrently.
func (s *DashboardService) PlayerProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	profile := &models.PlayerProfile{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.pg.QueryRow(ctx, `
			SELECT id, current_name, alliance_id, created_at, updated_at
			FROM players
			WHERE id = $1
		`, playerID).Scan(&profile.Player.ID, &profile.Player.CurrentName,
			&profile.Player.AllianceID, &profile.Player.CreatedAt, &profile.Player.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("player %s not found: %w", playerID, err)
		}
		if err != nil {
			return fmt.Errorf("player lookup: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		history, err := s.nameHistory(ctx, playerID)
		if err != nil {
			return err
		}
		profile.NameHistory = history
		return nil
	})

	g.Go(func() error {
		events, err := s.PlayerHistory(ctx, playerID)
		if err != nil {
			return err
		}
		profile.Events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *DashboardService) nameHistory(ctx context.Context, playerID string) ([]models.NameHistoryEntry, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT player_id, name, changed_at
		FROM player_name_history
		WHERE player_id = $1
		ORDER BY changed_at
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("name history query: %w", err)
	}
	defer rows.Close()

	var history []models.NameHistoryEntry
	for rows.Next() {
		var e models.NameHistoryEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("name history scan: %w", err)
		}
		history = append(history, e)
	}
	return history, rows.Err()
}

// PlayerHistory returns the player's stat lines across all events, grouped
// per event and ordered by event start date then phase order. Rows recorded
// under alias-linked accounts are folded in.
func (s *DashboardService) PlayerHistory(ctx context.Context, playerID string) ([]models.PlayerEventHistory, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT
			e.id, e.name,
			ph.id, ph.name, ph.phase_order,
			s.power, s.alliance_ranking, s.player_rank, s.furnace_level, s.world_rank_placement
		FROM daily_player_stats s
		JOIN event_phases ph ON ph.id = s.event_phase_id
		JOIN events e ON e.id = ph.event_id
		WHERE s.player_id = $1
		   OR s.player_id IN (SELECT alt_player_id FROM player_aliases WHERE main_player_id = $1)
		   OR s.player_id IN (SELECT main_player_id FROM player_aliases WHERE alt_player_id = $1)
		ORDER BY e.start_date, e.id, ph.phase_order
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("player history query: %w", err)
	}
	defer rows.Close()

	var events []models.PlayerEventHistory
	index := make(map[string]int)
	for rows.Next() {
		var eventID, eventName string
		var line models.PhaseStatLine
		if err := rows.Scan(&eventID, &eventName,
			&line.PhaseID, &line.PhaseName, &line.PhaseOrder,
			&line.Power, &line.AllianceRanking, &line.PlayerRank,
			&line.FurnaceLevel, &line.WorldRankPlacement); err != nil {
			return nil, fmt.Errorf("player history scan: %w", err)
		}

		i, ok := index[eventID]
		if !ok {
			i = len(events)
			index[eventID] = i
			events = append(events, models.PlayerEventHistory{EventID: eventID, EventName: eventName})
		}
		events[i].Phases = append(events[i].Phases, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("player history rows: %w", err)
	}
	return events, nil
}

// PowerDeltas compares every player's power between two phases. Alias-linked
// accounts are merged onto the main account before comparing; within one
// canonical player the highest recorded power per phase wins. The result is
// sorted by delta descending, players missing either side last.
func (s *DashboardService) PowerDeltas(ctx context.Context, fromPhaseID, toPhaseID string) ([]models.PowerDelta, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT
			canon_id,
			p.current_name,
			MAX(power) FILTER (WHERE event_phase_id = $1) AS from_power,
			MAX(power) FILTER (WHERE event_phase_id = $2) AS to_power
		FROM (
			SELECT
				COALESCE(a1.main_player_id, a2.main_player_id, s.player_id) AS canon_id,
				s.power,
				s.event_phase_id
			FROM daily_player_stats s
			LEFT JOIN player_aliases a1 ON a1.alt_player_id = s.player_id
			LEFT JOIN player_aliases a2 ON a2.main_player_id = s.player_id
			WHERE s.event_phase_id IN ($1, $2)
		) merged
		JOIN players p ON p.id = canon_id
		GROUP BY canon_id, p.current_name
	`, fromPhaseID, toPhaseID)
	if err != nil {
		return nil, fmt.Errorf("power delta query: %w", err)
	}
	defer rows.Close()

	var deltas []models.PowerDelta
	for rows.Next() {
		var d models.PowerDelta
		if err := rows.Scan(&d.PlayerID, &d.PlayerName, &d.FromPower, &d.ToPower); err != nil {
			return nil, fmt.Errorf("power delta scan: %w", err)
		}
		if d.FromPower != nil && d.ToPower != nil {
			delta := *d.ToPower - *d.FromPower
			d.Delta = &delta
		}
		deltas = append(deltas, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("power delta rows: %w", err)
	}

	sort.SliceStable(deltas, func(i, j int) bool {
		di, dj := deltas[i].Delta, deltas[j].Delta
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di > *dj
		}
	})
	return deltas, nil
}

// ListEvents returns all events newest first, each with its ordered phases.
func (s *DashboardService) ListEvents(ctx context.Context) ([]models.EventWithPhases, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT id, name, start_date, end_date
		FROM events
		ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("events query: %w", err)
	}
	defer rows.Close()

	var events []models.EventWithPhases
	index := make(map[string]int)
	for rows.Next() {
		var e models.EventWithPhases
		if err := rows.Scan(&e.ID, &e.Name, &e.StartDate, &e.EndDate); err != nil {
			return nil, fmt.Errorf("events scan: %w", err)
		}
		index[e.ID] = len(events)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("events rows: %w", err)
	}
	if len(events) == 0 {
		return events, nil
	}

	phaseRows, err := s.pg.Query(ctx, `
		SELECT id, event_id, name, phase_order
		FROM event_phases
		ORDER BY phase_order
	`)
	if err != nil {
		return nil, fmt.Errorf("phases query: %w", err)
	}
	defer phaseRows.Close()

	for phaseRows.Next() {
		var p models.EventPhase
		if err := phaseRows.Scan(&p.ID, &p.EventID, &p.Name, &p.PhaseOrder); err != nil {
			return nil, fmt.Errorf("phases scan: %w", err)
		}
		if i, ok := index[p.EventID]; ok {
			events[i].Phases = append(events[i].Phases, p)
		}
	}
	return events, phaseRows.Err()
}

// ListAlliances returns all known alliances, sorted by name.
func (s *DashboardService) ListAlliances(ctx context.Context) ([]models.Alliance, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT id, name, tag
		FROM alliances
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("alliances query: %w", err)
	}
	defer rows.Close()

	var alliances []models.Alliance
	for rows.Next() {
		var a models.Alliance
		if err := rows.Scan(&a.ID, &a.Name, &a.Tag); err != nil {
			return nil, fmt.Errorf("alliances scan: %w", err)
		}
		alliances = append(alliances, a)
	}
	return alliances, rows.Err()
}

// GetEvent returns one event with its ordered phases.
func (s *DashboardService) GetEvent(ctx context.Context, eventID string) (*models.EventWithPhases, error) {
	var e models.EventWithPhases
	err := s.pg.QueryRow(ctx, `
		SELECT id, name, start_date, end_date
		FROM events
		WHERE id = $1
	`, eventID).Scan(&e.ID, &e.Name, &e.StartDate, &e.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("event lookup: %w", err)
	}

	rows, err := s.pg.Query(ctx, `
		SELECT id, event_id, name, phase_order
		FROM event_phases
		WHERE event_id = $1
		ORDER BY phase_order
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("event phases query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.EventPhase
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.PhaseOrder); err != nil {
			return nil, fmt.Errorf("event phases scan: %w", err)
		}
		e.Phases = append(e.Phases, p)
	}
	return &e, rows.Err()
}
