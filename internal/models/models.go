package models

import "time"

// Player is the durable identity a CSV row resolves to. A player keeps the
// same id across renames; current_name is whatever the latest upload called
// them.
type Player struct {
	ID          string    `json:"id"`
	CurrentName string    `json:"currentName"`
	AllianceID  *string   `json:"allianceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NameHistoryEntry records a name a player has used. Entries are append-only
// and unique per (player, name).
type NameHistoryEntry struct {
	PlayerID  string    `json:"playerId"`
	Name      string    `json:"name"`
	ChangedAt time.Time `json:"changedAt"`
}

// Alias links an alt account to a main account. Written by the admin
// surface only; the read side folds the alt's stats into the main.
type Alias struct {
	Main string `json:"main"`
	Alt  string `json:"alt"`
}

type Alliance struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Tag  *string `json:"tag,omitempty"`
}

type Event struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// EventPhase is an ordered sub-period of an event. phase_order 0 is the
// prep/baseline phase by convention.
type EventPhase struct {
	ID         string `json:"id"`
	EventID    string `json:"eventId"`
	Name       string `json:"name"`
	PhaseOrder int    `json:"phaseOrder"`
}

type EventWithPhases struct {
	Event
	Phases []EventPhase `json:"phases"`
}

// DailyPlayerStat is the fact row for one (player, phase) pair. Every stat
// column is independently optional; uploads of different CSV kinds merge
// into the same row.
type DailyPlayerStat struct {
	ID                 string    `json:"id"`
	PlayerID           string    `json:"playerId"`
	EventPhaseID       string    `json:"eventPhaseId"`
	Power              *int64    `json:"power,omitempty"`
	AllianceRanking    *int64    `json:"allianceRanking,omitempty"`
	PlayerRank         *int64    `json:"playerRank,omitempty"`
	FurnaceLevel       *int64    `json:"furnaceLevel,omitempty"`
	WorldRankPlacement *int64    `json:"worldRankPlacement,omitempty"`
	Points             *int64    `json:"points,omitempty"`
	RecordedAt         time.Time `json:"recordedAt"`
}

// LeaderboardRow is one line of the per-phase dashboard table: the stat row
// joined with the player and their alliance, plus power deltas against the
// previous phase and the prep phase. PlayerID is the alias-canonical id so
// profile links land on the main account.
type LeaderboardRow struct {
	StatID             string    `json:"statId"`
	PlayerID           string    `json:"playerId"`
	PlayerName         string    `json:"playerName"`
	AllianceID         *string   `json:"allianceId,omitempty"`
	AllianceName       *string   `json:"allianceName,omitempty"`
	AllianceTag        *string   `json:"allianceTag,omitempty"`
	AllianceRanking    *int64    `json:"allianceRanking,omitempty"`
	Power              *int64    `json:"power,omitempty"`
	PlayerRank         *int64    `json:"playerRank,omitempty"`
	FurnaceLevel       *int64    `json:"furnaceLevel,omitempty"`
	WorldRankPlacement *int64    `json:"worldRankPlacement,omitempty"`
	Points             *int64    `json:"points,omitempty"`
	RecordedAt         time.Time `json:"recordedAt"`
	PreviousPhasePower *int64    `json:"previousPhasePower,omitempty"`
	PrepPhasePower     *int64    `json:"prepPhasePower,omitempty"`
}

// PhaseStatLine is one phase of a player's cross-event history.
type PhaseStatLine struct {
	PhaseID            string `json:"phaseId"`
	PhaseName          string `json:"phaseName"`
	PhaseOrder         int    `json:"phaseOrder"`
	Power              *int64 `json:"power,omitempty"`
	AllianceRanking    *int64 `json:"allianceRanking,omitempty"`
	PlayerRank         *int64 `json:"playerRank,omitempty"`
	FurnaceLevel       *int64 `json:"furnaceLevel,omitempty"`
	WorldRankPlacement *int64 `json:"worldRankPlacement,omitempty"`
}

// PlayerEventHistory groups a player's stat lines under one event,
// ordered by phase_order.
type PlayerEventHistory struct {
	EventID   string          `json:"eventId"`
	EventName string          `json:"eventName"`
	Phases    []PhaseStatLine `json:"phases"`
}

type PlayerProfile struct {
	Player      Player               `json:"player"`
	NameHistory []NameHistoryEntry   `json:"nameHistory"`
	Events      []PlayerEventHistory `json:"events"`
}

// PowerDelta is the alias-merged power movement of one logical player
// between two phases.
type PowerDelta struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	FromPower  *int64 `json:"fromPower,omitempty"`
	ToPower    *int64 `json:"toPower,omitempty"`
	Delta      *int64 `json:"delta,omitempty"`
}

// ExistingDataCheck reports whether a (phase, alliance) pair already has
// stat rows, so the UI can warn before a re-upload.
type ExistingDataCheck struct {
	HasData bool   `json:"hasData"`
	Count   int64  `json:"count"`
	Message string `json:"message"`
}
