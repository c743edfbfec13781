package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveCreatesDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.True(t, first.PrimaryPercentage.Equal(dec("50")))
	assert.True(t, first.ReferringPercentage.Equal(dec("25")))

	second, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	history, err := f.rates.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSetNewSupersedesPreviousVersions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	_, err = f.rates.SetNew(ctx, dec("45"), dec("20"))
	require.NoError(t, err)
	latest, err := f.rates.SetNew(ctx, dec("40"), dec("15"))
	require.NoError(t, err)

	active, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, active.ID)
	assert.True(t, active.PrimaryPercentage.Equal(dec("40")))

	history, err := f.rates.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, latest.ID, history[0].ID)
	for _, old := range history[1:] {
		assert.False(t, old.IsActive, "version %s still active", old.ID)
	}
	assert.Contains(t, f.eventTypes(t), usecase.EventRateSettingsChanged)
}

func TestSetNewValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name               string
		primary, referring string
		wantErr            bool
	}{
		{"bounds inclusive", "0", "100", false},
		{"fractional", "33.33", "12.5", false},
		{"primary above 100", "100.01", "10", true},
		{"negative referring", "50", "-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.rates.SetNew(ctx, dec(tt.primary), dec(tt.referring))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConcurrentSetNewKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.rates.SetNew(ctx, dec("30"), dec("10"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := f.rates.History(ctx)
	require.NoError(t, err)
	active := 0
	for _, h := range history {
		if h.IsActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

type fakeRateCache struct {
	mu            sync.Mutex
	settings      *domain.RateSettings
	getErr        error
	invalidateErr error
	invalidated   int
}

func (c *fakeRateCache) Get(ctx context.Context) (*domain.RateSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings, c.getErr
}

func (c *fakeRateCache) Set(ctx context.Context, s *domain.RateSettings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
	return nil
}

func (c *fakeRateCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	c.settings = nil
	return nil
}

func TestRateSettingsCache(t *testing.T) {
	ctx := context.Background()
	cache := &fakeRateCache{}
	f := newFixtureWith(t, domain.DefaultCommissionPolicy(), nil, cache)

	created, err := f.rates.SetNew(ctx, dec("30"), dec("10"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
	assert.Nil(t, cache.settings)

	active, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)
	require.NotNil(t, cache.settings)
	assert.Equal(t, created.ID, cache.settings.ID)

	// served from cache while storage is unchanged
	cache.settings = &domain.RateSettings{ID: "cached", PrimaryPercentage: dec("1"), ReferringPercentage: dec("1"), IsActive: true}
	active, err = f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached", active.ID)

	// a failing cache falls through to storage
	cache.getErr = errors.New("connection refused")
	active, err = f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)
}

func TestConversionIgnoresStaleCache(t *testing.T) {
	ctx := context.Background()
	cache := &fakeRateCache{}
	f := newFixtureWith(t, domain.DefaultCommissionPolicy(), nil, cache)
	submitter := f.affiliate(t, f.affiliate(t, nil))

	_, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, cache.settings)

	cache.invalidateErr = errors.New("redis: i/o timeout")
	_, err = f.rates.SetNew(ctx, dec("10"), dec("5"))
	require.NoError(t, err)

	// the cache still serves the superseded version
	cached, err := f.rates.GetActive(ctx)
	require.NoError(t, err)
	assert.True(t, cached.PrimaryPercentage.Equal(dec("50")))

	commissions := f.convert(t, f.lead(t, submitter), "1000")
	require.Len(t, commissions, 2)
	assert.True(t, commissions[0].Percentage.Equal(dec("10")))
	assert.Equal(t, "100.00", commissions[0].Amount.StringFixed(2))
	assert.True(t, commissions[1].Percentage.Equal(dec("5")))
	assert.Equal(t, "50.00", commissions[1].Amount.StringFixed(2))
}
