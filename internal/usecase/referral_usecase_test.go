package usecase_test

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTreeStopsAtMaxDepth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.affiliate(t, nil)
	l1 := f.affiliate(t, root)
	l2 := f.affiliate(t, l1)
	f.affiliate(t, l2) // level 3

	tree, err := f.referrals.BuildTree(ctx, root.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, root.ID, tree.AffiliateID)
	assert.Equal(t, 0, tree.Level)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, l1.ID, tree.Children[0].AffiliateID)
	assert.Equal(t, 1, tree.Children[0].Level)
	require.Len(t, tree.Children[0].Children, 1)

	deepest := tree.Children[0].Children[0]
	assert.Equal(t, l2.ID, deepest.AffiliateID)
	assert.Equal(t, 2, deepest.Level)
	assert.Empty(t, deepest.Children)

	byDefault, err := f.referrals.BuildTree(ctx, root.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, tree, byDefault)

	full, err := f.referrals.BuildTree(ctx, root.ID, 5)
	require.NoError(t, err)
	assert.Len(t, full.Children[0].Children[0].Children, 1)
}

func TestBuildTreeNodeDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.affiliate(t, nil)
	child := f.affiliate(t, root)
	f.affiliate(t, root)

	c := f.convert(t, f.lead(t, child), "1000")[0]
	f.lead(t, child)
	_, err := f.commissions.Approve(ctx, c.ID)
	require.NoError(t, err)
	_, err = f.commissions.MarkPaid(ctx, c.ID)
	require.NoError(t, err)

	tree, err := f.referrals.BuildTree(ctx, root.ID, 1)
	require.NoError(t, err)
	require.Len(t, tree.Children, 2)

	first := tree.Children[0]
	assert.Equal(t, child.ID, first.AffiliateID)
	assert.Equal(t, "Test Affiliate", first.Name)
	assert.Equal(t, child.ReferralCode, first.ReferralCode)
	assert.EqualValues(t, 2, first.LeadCount)
	assert.Equal(t, "500.00", first.TotalPaidCommission.StringFixed(2))

	// root earned a pending referral commission, which is not paid
	assert.True(t, tree.TotalPaidCommission.IsZero())
}

func TestBuildTreeDetectsCycle(t *testing.T) {
	f := newFixture(t)
	a := f.affiliate(t, nil)
	b := f.affiliate(t, a)
	require.NoError(t, f.store.SetReferredBy(a.ID, &b.ID))

	_, err := f.referrals.BuildTree(context.Background(), a.ID, 10)
	assert.ErrorIs(t, err, domain.ErrReferralCycle)
}

func TestBuildTreeUnknownRoot(t *testing.T) {
	f := newFixture(t)
	_, err := f.referrals.BuildTree(context.Background(), "missing", 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReferralStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.affiliate(t, nil)
	active := f.affiliate(t, root)
	f.affiliate(t, root)
	f.affiliate(t, active)

	commissions := f.convert(t, f.lead(t, active), "1000")
	require.Len(t, commissions, 2)
	referral := commissions[1]
	for _, step := range []func(context.Context, string) (*domain.Commission, error){f.commissions.Approve, f.commissions.MarkPaid} {
		_, err := step(ctx, referral.ID)
		require.NoError(t, err)
	}
	f.approved(t, root, "999") // manual, not referral

	stats, err := f.referrals.Stats(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DirectCount)
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, 2, stats.Level1Count)
	assert.Equal(t, 1, stats.Level2Count)
	assert.Equal(t, "250.00", stats.TotalReferralCommission.StringFixed(2))
}
