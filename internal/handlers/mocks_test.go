package handlers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wos-tracker/events-api/internal/ingest"
	"github.com/wos-tracker/events-api/internal/models"
)

// MockUploadService
type MockUploadService struct {
	IngestPowerFunc         func(ctx context.Context, file []byte, eventID, phaseID string) ingest.Outcome
	IngestPlayerDetailsFunc func(ctx context.Context, file []byte, eventID, phaseID string) ingest.Outcome
	IngestWorldRankingFunc  func(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome
	IngestCombinedFunc      func(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome
}

func (m *MockUploadService) IngestPower(ctx context.Context, file []byte, eventID, phaseID string) ingest.Outcome {
	if m.IngestPowerFunc != nil {
		return m.IngestPowerFunc(ctx, file, eventID, phaseID)
	}
	return ingest.Outcome{Success: true, Processed: 1, Message: "ok"}
}

func (m *MockUploadService) IngestPlayerDetails(ctx context.Context, file []byte, eventID, phaseID string) ingest.Outcome {
	if m.IngestPlayerDetailsFunc != nil {
		return m.IngestPlayerDetailsFunc(ctx, file, eventID, phaseID)
	}
	return ingest.Outcome{Success: true, Processed: 1, Message: "ok"}
}

func (m *MockUploadService) IngestWorldRanking(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome {
	if m.IngestWorldRankingFunc != nil {
		return m.IngestWorldRankingFunc(ctx, file, eventID, phaseID, allianceID)
	}
	return ingest.Outcome{Success: true, Processed: 1, Message: "ok"}
}

func (m *MockUploadService) IngestCombined(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome {
	if m.IngestCombinedFunc != nil {
		return m.IngestCombinedFunc(ctx, file, eventID, phaseID, allianceID)
	}
	return ingest.Outcome{Success: true, Processed: 1, Message: "ok"}
}

// MockDashboardService
type MockDashboardService struct {
	PhaseLeaderboardFunc func(ctx context.Context, phaseID string) ([]models.LeaderboardRow, error)
	ExistingDataFunc     func(ctx context.Context, phaseID, allianceID string) (*models.ExistingDataCheck, error)
	PlayerProfileFunc    func(ctx context.Context, playerID string) (*models.PlayerProfile, error)
	PlayerHistoryFunc    func(ctx context.Context, playerID string) ([]models.PlayerEventHistory, error)
	PowerDeltasFunc      func(ctx context.Context, fromPhaseID, toPhaseID string) ([]models.PowerDelta, error)
	ListEventsFunc       func(ctx context.Context) ([]models.EventWithPhases, error)
	GetEventFunc         func(ctx context.Context, eventID string) (*models.EventWithPhases, error)
	ListAlliancesFunc    func(ctx context.Context) ([]models.Alliance, error)
}

func (m *MockDashboardService) PhaseLeaderboard(ctx context.Context, phaseID string) ([]models.LeaderboardRow, error) {
	if m.PhaseLeaderboardFunc != nil {
		return m.PhaseLeaderboardFunc(ctx, phaseID)
	}
	return nil, nil
}

func (m *MockDashboardService) ExistingData(ctx context.Context, phaseID, allianceID string) (*models.ExistingDataCheck, error) {
	if m.ExistingDataFunc != nil {
		return m.ExistingDataFunc(ctx, phaseID, allianceID)
	}
	return &models.ExistingDataCheck{}, nil
}

func (m *MockDashboardService) PlayerProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	if m.PlayerProfileFunc != nil {
		return m.PlayerProfileFunc(ctx, playerID)
	}
	return &models.PlayerProfile{}, nil
}

func (m *MockDashboardService) PlayerHistory(ctx context.Context, playerID string) ([]models.PlayerEventHistory, error) {
	if m.PlayerHistoryFunc != nil {
		return m.PlayerHistoryFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *MockDashboardService) PowerDeltas(ctx context.Context, fromPhaseID, toPhaseID string) ([]models.PowerDelta, error) {
	if m.PowerDeltasFunc != nil {
		return m.PowerDeltasFunc(ctx, fromPhaseID, toPhaseID)
	}
	return nil, nil
}

func (m *MockDashboardService) ListEvents(ctx context.Context) ([]models.EventWithPhases, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx)
	}
	return nil, nil
}

func (m *MockDashboardService) GetEvent(ctx context.Context, eventID string) (*models.EventWithPhases, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, eventID)
	}
	return &models.EventWithPhases{}, nil
}

func (m *MockDashboardService) ListAlliances(ctx context.Context) ([]models.Alliance, error) {
	if m.ListAlliancesFunc != nil {
		return m.ListAlliancesFunc(ctx)
	}
	return nil, nil
}

// MockBoardCache records invalidations and serves a fixed entry.
type MockBoardCache struct {
	Entries     map[string][]models.LeaderboardRow
	SetCalls    []string
	Invalidated []string
}

func (m *MockBoardCache) Get(ctx context.Context, phaseID string) ([]models.LeaderboardRow, bool) {
	rows, ok := m.Entries[phaseID]
	return rows, ok
}

func (m *MockBoardCache) Set(ctx context.Context, phaseID string, rows []models.LeaderboardRow) {
	m.SetCalls = append(m.SetCalls, phaseID)
}

func (m *MockBoardCache) Invalidate(ctx context.Context, phaseID string) {
	m.Invalidated = append(m.Invalidated, phaseID)
}

// mockPinger reports a fixed dependency state.
type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

// mockRedis only needs Ping for readiness checks.
type mockRedis struct{ pingErr error }

func (m mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (m mockRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (m mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(0, nil)
}

func (m mockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.pingErr)
}
