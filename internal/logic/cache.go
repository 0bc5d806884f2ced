package logic

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wos-tracker/events-api/internal/models"
)

const leaderboardKeyPrefix = "leaderboard:"

// LeaderboardCache keeps rendered phase leaderboards in Redis. It is
// best-effort: every Redis failure degrades to a cache miss, never to a
// request failure.
type LeaderboardCache struct {
	redis  RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewLeaderboardCache(rdb RedisClient, ttl time.Duration, logger *zap.Logger) *LeaderboardCache {
	return &LeaderboardCache{redis: rdb, ttl: ttl, logger: logger.Sugar()}
}

func leaderboardKey(phaseID string) string {
	return leaderboardKeyPrefix + phaseID
}

func (c *LeaderboardCache) Get(ctx context.Context, phaseID string) ([]models.LeaderboardRow, bool) {
	payload, err := c.redis.Get(ctx, leaderboardKey(phaseID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("Leaderboard cache read failed", "phaseId", phaseID, "error", err)
		}
		return nil, false
	}

	var rows []models.LeaderboardRow
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		c.logger.Warnw("Leaderboard cache payload corrupt, treating as miss",
			"phaseId", phaseID, "error", err)
		return nil, false
	}
	return rows, true
}

func (c *LeaderboardCache) Set(ctx context.Context, phaseID string, rows []models.LeaderboardRow) {
	payload, err := json.Marshal(rows)
	if err != nil {
		c.logger.Warnw("Leaderboard cache encode failed", "phaseId", phaseID, "error", err)
		return
	}
	if err := c.redis.Set(ctx, leaderboardKey(phaseID), payload, c.ttl).Err(); err != nil {
		c.logger.Warnw("Leaderboard cache write failed", "phaseId", phaseID, "error", err)
	}
}

// Invalidate drops the cached leaderboard for a phase. Called after every
// successful upload into that phase.
func (c *LeaderboardCache) Invalidate(ctx context.Context, phaseID string) {
	if err := c.redis.Del(ctx, leaderboardKey(phaseID)).Err(); err != nil {
		c.logger.Warnw("Leaderboard cache invalidation failed", "phaseId", phaseID, "error", err)
	}
}
