package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const activeRateSettingsKey = "affiliate:rate_settings:active"

type cachedRateSettings struct {
	ID                  string          `json:"id"`
	PrimaryPercentage   decimal.Decimal `json:"primary_percentage"`
	ReferringPercentage decimal.Decimal `json:"referring_percentage"`
	EffectiveFrom       time.Time       `json:"effective_from"`
	CreatedAt           time.Time       `json:"created_at"`
}

// RedisRateSettingsCache implements domain.RateSettingsCache.
type RedisRateSettingsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisRateSettingsCache(client redis.Cmdable, ttl time.Duration) *RedisRateSettingsCache {
	return &RedisRateSettingsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisRateSettingsCache) Get(ctx context.Context) (*domain.RateSettings, error) {
	raw, err := c.client.Get(ctx, activeRateSettingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get rate settings: %w", err)
	}
	return decodeRateSettings(raw)
}

func (c *RedisRateSettingsCache) Set(ctx context.Context, settings *domain.RateSettings) error {
	raw, err := encodeRateSettings(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeRateSettingsKey, raw, c.ttl).Err()
}

func (c *RedisRateSettingsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeRateSettingsKey).Err()
}

func encodeRateSettings(s *domain.RateSettings) ([]byte, error) {
	return json.Marshal(cachedRateSettings{
		ID:                  s.ID,
		PrimaryPercentage:   s.PrimaryPercentage,
		ReferringPercentage: s.ReferringPercentage,
		EffectiveFrom:       s.EffectiveFrom,
		CreatedAt:           s.CreatedAt,
	})
}

func decodeRateSettings(raw []byte) (*domain.RateSettings, error) {
	var c cachedRateSettings
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cached rate settings: %w", err)
	}
	return &domain.RateSettings{
		ID:                  c.ID,
		PrimaryPercentage:   c.PrimaryPercentage,
		ReferringPercentage: c.ReferringPercentage,
		IsActive:            true,
		EffectiveFrom:       c.EffectiveFrom,
		CreatedAt:           c.CreatedAt,
	}, nil
}
