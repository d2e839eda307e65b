package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RevenueSource is what the cache sits in front of.
type RevenueSource interface {
	Revenue(ctx context.Context, from, to time.Time) (*services.RevenueReport, error)
}

// ReportCache is a read-through cache of revenue reports. Redis problems are
// logged and the source is queried instead.
type ReportCache struct {
	source RevenueSource
	redis  *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewReportCache(source RevenueSource, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReportCache{source: source, redis: rdb, ttl: ttl, log: log}
}

func revenueKey(from, to time.Time) string {
	return fmt.Sprintf("report:revenue:%s:%s", utils.FormatLocalDate(from), utils.FormatLocalDate(to))
}

func (c *ReportCache) Revenue(ctx context.Context, from, to time.Time) (*services.RevenueReport, error) {
	key := revenueKey(from, to)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rep services.RevenueReport
		if err := json.Unmarshal(data, &rep); err != nil {
			c.log.Warn("cached report unreadable, using database", zap.String("key", key), zap.Error(err))
			break
		}
		return &rep, nil
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("redis error, using database", zap.String("key", key), zap.Error(err))
	}

	rep, err := c.source.Revenue(ctx, from, to)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		c.log.Warn("failed to encode report", zap.Error(err))
		return rep, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
	return rep, nil
}

// Invalidate drops every cached revenue report. Called after reservation
// mutations so totals do not lag behind by a whole TTL.
func (c *ReportCache) Invalidate(ctx context.Context) {
	iter := c.redis.Scan(ctx, 0, "report:revenue:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("failed to scan report cache", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
