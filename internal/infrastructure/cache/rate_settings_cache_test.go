package cache

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateSettingsEncoding(t *testing.T) {
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	in := &domain.RateSettings{
		ID:                  "rs-1",
		PrimaryPercentage:   decimal.RequireFromString("33.33"),
		ReferringPercentage: decimal.RequireFromString("12.5"),
		IsActive:            true,
		EffectiveFrom:       at,
		CreatedAt:           at,
	}

	raw, err := encodeRateSettings(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"primary_percentage":"33.33"`)

	out, err := decodeRateSettings(raw)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, out.IsActive)
	assert.True(t, in.PrimaryPercentage.Equal(out.PrimaryPercentage))
	assert.True(t, in.ReferringPercentage.Equal(out.ReferringPercentage))
	assert.True(t, at.Equal(out.EffectiveFrom))

	_, err = decodeRateSettings([]byte("{"))
	assert.Error(t, err)
}

func TestCacheUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisRateSettingsCache(client, time.Minute)
	got, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)

	_, err = ConnectRedis(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
