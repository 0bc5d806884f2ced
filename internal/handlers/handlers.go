package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wos-tracker/events-api/internal/ingest"
	"github.com/wos-tracker/events-api/internal/logic"
	"github.com/wos-tracker/events-api/internal/models"
)

// DefaultMaxUploadSize caps CSV upload bodies when config leaves it unset.
const DefaultMaxUploadSize = 5 * 1024 * 1024

// UploadService runs one CSV upload end to end for each accepted shape.
type UploadService interface {
	IngestPower(ctx context.Context, file []byte, eventID, phaseID string) ingest.Outcome
	IngestPlayerDetails(ctx context.Context, file []byte, eventID, phaseID string) ingest.Outcome
	IngestWorldRanking(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome
	IngestCombined(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome
}

// DashboardService serves the read side of the tracker.
type DashboardService interface {
	PhaseLeaderboard(ctx context.Context, phaseID string) ([]models.LeaderboardRow, error)
	ExistingData(ctx context.Context, phaseID, allianceID string) (*models.ExistingDataCheck, error)
	PlayerProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error)
	PlayerHistory(ctx context.Context, playerID string) ([]models.PlayerEventHistory, error)
	PowerDeltas(ctx context.Context, fromPhaseID, toPhaseID string) ([]models.PowerDelta, error)
	ListEvents(ctx context.Context) ([]models.EventWithPhases, error)
	GetEvent(ctx context.Context, eventID string) (*models.EventWithPhases, error)
	ListAlliances(ctx context.Context) ([]models.Alliance, error)
}

// BoardCache is the leaderboard read cache.
type BoardCache interface {
	Get(ctx context.Context, phaseID string) ([]models.LeaderboardRow, bool)
	Set(ctx context.Context, phaseID string, rows []models.LeaderboardRow)
	Invalidate(ctx context.Context, phaseID string)
}

// Pinger is what readiness checks need from the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Postgres *pgxpool.Pool
	Redis    logic.RedisClient
	Logger   *zap.Logger
	// Services
	Uploads   UploadService
	Dashboard DashboardService
	Cache     BoardCache
	// Upload surface
	UploadToken   string
	MaxUploadSize int64
}

type Handler struct {
	pg            Pinger
	redis         logic.RedisClient
	logger        *zap.SugaredLogger
	validator     *validator.Validate
	uploads       UploadService
	dashboard     DashboardService
	cache         BoardCache
	uploadToken   string
	maxUploadSize int64
}

func New(cfg Config) *Handler {
	maxSize := cfg.MaxUploadSize
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &Handler{
		pg:            cfg.Postgres,
		redis:         cfg.Redis,
		logger:        cfg.Logger.Sugar(),
		validator:     validator.New(),
		uploads:       cfg.Uploads,
		dashboard:     cfg.Dashboard,
		cache:         cfg.Cache,
		uploadToken:   cfg.UploadToken,
		maxUploadSize: maxSize,
	}
}
