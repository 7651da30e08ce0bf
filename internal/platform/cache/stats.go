package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/phrazzld/lingo-progress/internal/redact"
	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "lingo:stats:"

// StudyStatsCache stores computed study statistics per student and day.
// Implementations treat cache failures as misses; callers recompute.
type StudyStatsCache interface {
	// Get returns the cached stats and true, or false on a miss. Entries are
	// never returned at or after their validUntil.
	Get(ctx context.Context, studentID uuid.UUID, now time.Time) (*srs.StudyStats, bool)
	// Set stores stats computed at now. A non-zero validUntil bounds the entry's
	// lifetime below the cache TTL, for counters that change with the clock.
	Set(ctx context.Context, studentID uuid.UUID, now time.Time, stats srs.StudyStats, validUntil time.Time)
	Invalidate(ctx context.Context, studentID uuid.UUID, now time.Time)
}

// statsKey scopes entries to the calendar day in now's location, since the
// "today" counters change meaning at midnight.
func statsKey(studentID uuid.UUID, now time.Time) string {
	return statsKeyPrefix + studentID.String() + ":" + now.Format(time.DateOnly)
}

// cachedStats is the stored form of an entry.
type cachedStats struct {
	Stats      srs.StudyStats `json:"stats"`
	ValidUntil time.Time      `json:"valid_until"`
}

// RedisStatsCache is the Redis implementation of StudyStatsCache.
type RedisStatsCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

var _ StudyStatsCache = (*RedisStatsCache)(nil)

// NewRedisStatsCache creates a stats cache whose entries expire after ttl.
func NewRedisStatsCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) (*RedisStatsCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("stats ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStatsCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "stats_cache")),
	}, nil
}

// Get implements StudyStatsCache.Get
func (c *RedisStatsCache) Get(ctx context.Context, studentID uuid.UUID, now time.Time) (*srs.StudyStats, bool) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	key := statsKey(studentID, now)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("stats cache read failed",
				slog.String("key", key),
				slog.String("error", redact.Error(err)))
		}
		return nil, false
	}

	var entry cachedStats
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Warn("discarding undecodable stats cache entry",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return nil, false
	}
	if !entry.ValidUntil.IsZero() && !now.Before(entry.ValidUntil) {
		return nil, false
	}
	return &entry.Stats, true
}

// Set implements StudyStatsCache.Set
func (c *RedisStatsCache) Set(
	ctx context.Context,
	studentID uuid.UUID,
	now time.Time,
	stats srs.StudyStats,
	validUntil time.Time,
) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	key := statsKey(studentID, now)

	ttl := c.ttl
	if !validUntil.IsZero() {
		if d := validUntil.Sub(now); d < ttl {
			ttl = d
		}
	}
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(cachedStats{Stats: stats, ValidUntil: validUntil})
	if err != nil {
		log.Error("failed to encode stats", slog.String("error", redact.Error(err)))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn("stats cache write failed",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
	}
}

// Invalidate implements StudyStatsCache.Invalidate
func (c *RedisStatsCache) Invalidate(ctx context.Context, studentID uuid.UUID, now time.Time) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	key := statsKey(studentID, now)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn("stats cache invalidation failed",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return
	}
	log.Debug("stats cache invalidated", slog.String("key", key))
}

// NoopStatsCache never stores anything. It is used when no cache URL is configured.
type NoopStatsCache struct{}

var _ StudyStatsCache = NoopStatsCache{}

// Get always misses.
func (NoopStatsCache) Get(context.Context, uuid.UUID, time.Time) (*srs.StudyStats, bool) {
	return nil, false
}

// Set does nothing.
func (NoopStatsCache) Set(context.Context, uuid.UUID, time.Time, srs.StudyStats, time.Time) {}

// Invalidate does nothing.
func (NoopStatsCache) Invalidate(context.Context, uuid.UUID, time.Time) {}
