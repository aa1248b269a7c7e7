package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"election-service/internal/database"
	"election-service/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisService backs request rate limiting and the declared-results cache.
type RedisService struct {
	client *database.RedisClient
}

func NewRedisService(client *database.RedisClient) *RedisService {
	return &RedisService{
		client: client,
	}
}

// =============================================================================
// Rate Limiting
// =============================================================================

// CheckRateLimit records a hit under key and reports whether fewer than
// limit hits fall inside the sliding window.
func (r *RedisService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	card := pipe.ZCard(ctx, key)
	// members must stay distinct when two hits share a timestamp
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return card.Val() < int64(limit), nil
}

// =============================================================================
// Results Cache
// =============================================================================

func resultsKey(electionID uint) string {
	return fmt.Sprintf("election:%d:results", electionID)
}

func (r *RedisService) GetResults(ctx context.Context, electionID uint) (*models.PublicResults, bool) {
	var results models.PublicResults
	if err := r.Get(ctx, resultsKey(electionID), &results); err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Failed to read cached results", "electionID", electionID, "error", err)
		}
		return nil, false
	}
	return &results, true
}

func (r *RedisService) SetResults(ctx context.Context, electionID uint, results *models.PublicResults, ttl time.Duration) error {
	return r.Set(ctx, resultsKey(electionID), results, ttl)
}

func (r *RedisService) InvalidateResults(ctx context.Context, electionID uint) error {
	return r.Delete(ctx, resultsKey(electionID))
}

// =============================================================================
// Cache Operations
// =============================================================================

func (r *RedisService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return r.client.GetClient().Set(ctx, key, data, expiration).Err()
}

func (r *RedisService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.GetClient().Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisService) Delete(ctx context.Context, keys ...string) error {
	return r.client.GetClient().Del(ctx, keys...).Err()
}

func (r *RedisService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
