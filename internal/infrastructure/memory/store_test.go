package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.CreateCommission(ctx, &domain.Commission{
			ID:          "c1",
			AffiliateID: "a1",
			Amount:      decimal.NewFromInt(10),
			Status:      domain.CommissionPending,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.GetCommissionByID(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithinTransactionNested(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			return store.CreateRateSettings(ctx, &domain.RateSettings{ID: "r1", IsActive: true})
		})
	})
	require.NoError(t, err)

	active, err := store.GetActiveRateSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", active.ID)
}

func TestSingleActiveRateSettings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.CreateRateSettings(ctx, &domain.RateSettings{ID: "r1", IsActive: true}))
	err := store.CreateRateSettings(ctx, &domain.RateSettings{ID: "r2", IsActive: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLeadStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	lead := &domain.Lead{ID: "l1", Code: "LEAD-2026-001", Status: domain.LeadQualified}
	require.NoError(t, store.CreateLead(ctx, lead))

	lead.Status = domain.LeadSold
	require.NoError(t, store.UpdateLeadStatus(ctx, lead, domain.LeadQualified))
	assert.ErrorIs(t, store.UpdateLeadStatus(ctx, lead, domain.LeadQualified), domain.ErrConflict)
}
