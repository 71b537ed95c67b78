package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urlkit/urlkit/internal/models"
)

// CacheRepository is a read-through cache over short link records.
// Cached copies may carry a stale click counter; only the immutable
// fields (original_url, expires_at, created_at) are served from here.
type CacheRepository interface {
	Get(ctx context.Context, shortID string) (*models.ShortLinkRecord, error)
	Set(ctx context.Context, shortID string, rec *models.ShortLinkRecord, ttl time.Duration) error
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) Get(ctx context.Context, shortID string) (*models.ShortLinkRecord, error) {
	data, err := r.redis.Client.Get(ctx, r.key(shortID)).Bytes()
	if err != nil {
		return nil, err
	}

	var rec models.ShortLinkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link record: %w", err)
	}

	return &rec, nil
}

func (r *cacheRepository) Set(ctx context.Context, shortID string, rec *models.ShortLinkRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal link record: %w", err)
	}

	return r.redis.Client.Set(ctx, r.key(shortID), data, ttl).Err()
}

func (r *cacheRepository) key(shortID string) string {
	return "link:" + shortID
}
