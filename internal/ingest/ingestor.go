package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Outcome is what every upload call returns. Failures are values, not
// errors: nothing escapes the orchestrator boundary except this summary.
type Outcome struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

func failure(msg string) Outcome {
	return Outcome{Success: false, Message: msg}
}

// uploadKind describes one of the CSV shapes the dashboard accepts: which
// positional schema to fall back to when the header row is unrecognizable,
// and how to turn a row into stat fields.
type uploadKind struct {
	name     string
	fallback positionalSchema
	extract  func(row Row) ([]StatField, error)
}

var powerUpload = uploadKind{
	name:     "power",
	fallback: positionalSchema{"playername", "power"},
	extract: func(row Row) ([]StatField, error) {
		power, err := parseCount(row["power"])
		if err != nil {
			return nil, fmt.Errorf("invalid power value %q", row["power"])
		}
		return []StatField{{Column: "power", Value: &power}}, nil
	},
}

var playerDetailsUpload = uploadKind{
	name:     "player-details",
	fallback: positionalSchema{"playername", "allianceranking", "playerrank", "furnacelevel"},
	extract: func(row Row) ([]StatField, error) {
		p := &fieldParser{}
		allianceRanking := p.optional(row["allianceranking"])
		playerRank := p.optional(row["playerrank"])
		furnaceLevel := p.optional(row["furnacelevel"])
		if p.err != nil {
			return nil, p.err
		}
		return []StatField{
			{Column: "alliance_ranking", Value: allianceRanking},
			{Column: "player_rank", Value: playerRank},
			{Column: "furnace_level", Value: furnaceLevel},
		}, nil
	},
}

var worldRankingUpload = uploadKind{
	name:     "world-ranking",
	fallback: positionalSchema{"playername", "worldrank", "points"},
	extract: func(row Row) ([]StatField, error) {
		p := &fieldParser{}
		worldRank := p.optional(row["worldrank"])
		if worldRank == nil && p.err == nil {
			worldRank = p.optional(row["worldrankplacement"])
		}
		points := p.optional(row["points"])
		if p.err != nil {
			return nil, p.err
		}
		return []StatField{
			{Column: "world_rank_placement", Value: worldRank},
			{Column: "points", Value: points},
		}, nil
	},
}

var combinedUpload = uploadKind{
	name:     "combined",
	fallback: positionalSchema{"playername", "power", "allianceranking"},
	extract: func(row Row) ([]StatField, error) {
		power, err := parseCount(row["power"])
		if err != nil {
			return nil, fmt.Errorf("invalid power value %q", row["power"])
		}
		p := &fieldParser{}
		allianceRanking := p.optional(row["allianceranking"])
		if p.err != nil {
			return nil, p.err
		}
		return []StatField{
			{Column: "power", Value: &power},
			{Column: "alliance_ranking", Value: allianceRanking},
		}, nil
	},
}

// Ingestor drives an upload end to end: validate, parse, then one strictly
// ordered pass over the rows, resolving each player and upserting their
// stats. Rows are processed in file order on purpose, since a later row may
// overwrite an earlier row's name or alliance assignment within one file.
type Ingestor struct {
	resolver PlayerResolver
	stats    StatUpserter
	logger   *zap.SugaredLogger
}

func NewIngestor(db PgPool, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		resolver: NewResolver(db, logger),
		stats:    NewStatWriter(db),
		logger:   logger.Sugar(),
	}
}

// IngestPower handles a power export: playername, power.
func (ing *Ingestor) IngestPower(ctx context.Context, file []byte, eventID, phaseID string) Outcome {
	return ing.ingest(ctx, file, eventID, phaseID, powerUpload, "")
}

// IngestPlayerDetails handles a details export: playername,
// allianceranking, playerrank, furnacelevel.
func (ing *Ingestor) IngestPlayerDetails(ctx context.Context, file []byte, eventID, phaseID string) Outcome {
	return ing.ingest(ctx, file, eventID, phaseID, playerDetailsUpload, "")
}

// IngestWorldRanking handles a world-ranking export: playername,
// worldrank (or worldrankplacement), points. A non-empty allianceID
// reassigns each resolved player to that alliance.
func (ing *Ingestor) IngestWorldRanking(ctx context.Context, file []byte, eventID, phaseID, allianceID string) Outcome {
	return ing.ingest(ctx, file, eventID, phaseID, worldRankingUpload, allianceID)
}

// IngestCombined handles a combined export: playername, power,
// allianceranking, optionally reassigning the alliance.
func (ing *Ingestor) IngestCombined(ctx context.Context, file []byte, eventID, phaseID, allianceID string) Outcome {
	return ing.ingest(ctx, file, eventID, phaseID, combinedUpload, allianceID)
}

func (ing *Ingestor) ingest(ctx context.Context, file []byte, eventID, phaseID string, kind uploadKind, allianceID string) Outcome {
	if len(file) == 0 {
		return failure("No CSV file provided.")
	}
	if eventID == "" || phaseID == "" {
		return failure("Event ID or Phase ID is missing.")
	}

	rows, err := parseUpload(string(file), kind.fallback)
	if err != nil {
		uploadsTotal.WithLabelValues(kind.name, "parse_failed").Inc()
		if errors.Is(err, errNoDataRows) {
			return failure("CSV file is empty or has no valid data rows.")
		}
		return failure(fmt.Sprintf("CSV parsing errors: %s", err))
	}

	// No transaction spans the batch: a mid-batch storage failure leaves
	// earlier rows committed, and the caller resubmits the whole file.
	processed := 0
	for _, row := range rows {
		name := row["playername"]
		if name == "" {
			ing.logger.Warnw("Skipping row with missing player name", "kind", kind.name)
			rowsSkipped.Inc()
			continue
		}

		playerID, err := ing.resolver.Resolve(ctx, name, allianceID)
		if err != nil {
			uploadsTotal.WithLabelValues(kind.name, "storage_failed").Inc()
			ing.logger.Errorw("Player resolution failed, aborting batch",
				"kind", kind.name, "player", name, "error", err)
			return failure(fmt.Sprintf("Database error: %s", err))
		}

		// Identity resolution happens before value extraction, so a row with
		// a garbage power still creates or renames its player.
		fields, err := kind.extract(row)
		if err != nil {
			ing.logger.Warnw("Skipping row with unparsable values",
				"kind", kind.name, "player", name, "error", err)
			rowsSkipped.Inc()
			processed++
			continue
		}

		if err := ing.stats.Upsert(ctx, playerID, phaseID, fields); err != nil {
			uploadsTotal.WithLabelValues(kind.name, "storage_failed").Inc()
			ing.logger.Errorw("Stat upsert failed, aborting batch",
				"kind", kind.name, "player", name, "error", err)
			return failure(fmt.Sprintf("Database error: %s", err))
		}
		rowsProcessed.Inc()
		processed++
	}

	uploadsTotal.WithLabelValues(kind.name, "success").Inc()
	return Outcome{
		Success:   true,
		Processed: processed,
		Message:   fmt.Sprintf("CSV data uploaded successfully! Processed %d players.", processed),
	}
}
