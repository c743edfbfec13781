package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/usecase"
	affiliatedto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/affiliate"
	payoutdto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/payout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) payable(t *testing.T) *domain.Affiliate {
	t.Helper()

	a := f.affiliate(t, nil)
	updated, err := f.affiliates.UpdatePaymentProfile(context.Background(), &affiliatedto.UpdatePaymentProfileInput{
		AffiliateID: a.ID,
		PaypalEmail: strPtr("payee@example.com"),
	})
	require.NoError(t, err)
	return updated
}

func payoutInput(a *domain.Affiliate, amount string) *payoutdto.RequestPayoutInput {
	return &payoutdto.RequestPayoutInput{
		AffiliateID: a.ID,
		Amount:      dec(amount),
		Method:      string(domain.PaymentMethodPaypal),
	}
}

func TestRequestPayoutSkipsTooLargeCommission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.payable(t)
	c30 := f.approved(t, a, "30")
	c45 := f.approved(t, a, "45")
	c80 := f.approved(t, a, "80")

	summary, err := f.payouts.RequestPayout(ctx, payoutInput(a, "100"))
	require.NoError(t, err)

	assert.Equal(t, "100.00", summary.Requested.StringFixed(2))
	assert.Equal(t, "75.00", summary.Allocated.StringFixed(2))
	assert.Equal(t, "25.00", summary.Shortfall.StringFixed(2))
	assert.True(t, summary.Partial)
	require.Len(t, summary.Commissions, 2)
	assert.Equal(t, c30.ID, summary.Commissions[0].ID)
	assert.Equal(t, c45.ID, summary.Commissions[1].ID)

	untouched, err := f.store.GetCommissionByID(ctx, c80.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.PayoutRequestedAt)

	claimed, err := f.store.GetCommissionByID(ctx, c30.ID)
	require.NoError(t, err)
	assert.NotNil(t, claimed.PayoutRequestedAt)
	assert.Equal(t, domain.CommissionApproved, claimed.Status)

	assert.Contains(t, f.eventTypes(t), usecase.EventPayoutRequested)
}

func TestRequestPayoutExactAllocation(t *testing.T) {
	f := newFixture(t)
	a := f.payable(t)
	f.approved(t, a, "40")
	f.approved(t, a, "60")

	summary, err := f.payouts.RequestPayout(context.Background(), payoutInput(a, "100"))
	require.NoError(t, err)
	assert.False(t, summary.Partial)
	assert.True(t, summary.Shortfall.IsZero())
	assert.Len(t, summary.Commissions, 2)
}

func TestRequestPayoutNeverReclaims(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.payable(t)
	f.approved(t, a, "30")
	f.approved(t, a, "45")
	c80 := f.approved(t, a, "80")

	_, err := f.payouts.RequestPayout(ctx, payoutInput(a, "100"))
	require.NoError(t, err)

	summary, err := f.payouts.RequestPayout(ctx, payoutInput(a, "100"))
	require.NoError(t, err)
	require.Len(t, summary.Commissions, 1)
	assert.Equal(t, c80.ID, summary.Commissions[0].ID)
	assert.Equal(t, "20.00", summary.Shortfall.StringFixed(2))

	summary, err = f.payouts.RequestPayout(ctx, payoutInput(a, "50"))
	require.NoError(t, err)
	assert.Empty(t, summary.Commissions)
	assert.True(t, summary.Allocated.IsZero())
	assert.True(t, summary.Partial)
}

func TestRequestPayoutPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	payable := f.payable(t)
	f.approved(t, payable, "100")

	noProfile := f.affiliate(t, nil)
	f.approved(t, noProfile, "100")

	pending := f.payable(t)
	f.convert(t, f.lead(t, pending), "1000")

	tests := []struct {
		name  string
		input *payoutdto.RequestPayoutInput
		want  error
	}{
		{"zero amount", payoutInput(payable, "0"), domain.ErrInvalidAmount},
		{"negative amount", payoutInput(payable, "-1"), domain.ErrInvalidAmount},
		{"above approved balance", payoutInput(payable, "100.01"), domain.ErrInsufficientBalance},
		{"pending does not count", payoutInput(pending, "10"), domain.ErrInsufficientBalance},
		{"balance checked before method", &payoutdto.RequestPayoutInput{AffiliateID: payable.ID, Amount: dec("500"), Method: "crypto"}, domain.ErrInsufficientBalance},
		{"unknown method", &payoutdto.RequestPayoutInput{AffiliateID: payable.ID, Amount: dec("50"), Method: "crypto"}, domain.ErrInvalidPaymentMethod},
		{"no paypal email", payoutInput(noProfile, "50"), domain.ErrMissingPaymentInfo},
		{"no bank details", &payoutdto.RequestPayoutInput{AffiliateID: payable.ID, Amount: dec("50"), Method: string(domain.PaymentMethodBankTransfer)}, domain.ErrMissingPaymentInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payouts.RequestPayout(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	requested, err := f.store.ListPayoutRequested(ctx, payable.ID)
	require.NoError(t, err)
	assert.Empty(t, requested)
}

func TestRequestPayoutMinimum(t *testing.T) {
	policy := domain.DefaultCommissionPolicy()
	policy.MinimumPayoutAmount = dec("50")
	f := newFixtureWith(t, policy, nil, nil)
	a := f.payable(t)
	f.approved(t, a, "100")

	_, err := f.payouts.RequestPayout(context.Background(), payoutInput(a, "49.99"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.payouts.RequestPayout(context.Background(), payoutInput(a, "50"))
	assert.NoError(t, err)
}

func TestConcurrentPayoutsClaimDisjointCommissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.payable(t)
	for i := 0; i < 4; i++ {
		f.approved(t, a, "25")
	}

	const workers = 4
	summaries := make([]*domain.PayoutSummary, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := f.payouts.RequestPayout(ctx, payoutInput(a, "50"))
			assert.NoError(t, err)
			summaries[i] = s
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, s := range summaries {
		require.NotNil(t, s)
		for _, c := range s.Commissions {
			assert.False(t, seen[c.ID], "commission %s claimed twice", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, 4)
}

func TestListPayoutRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.affiliate(t, nil)

	day1 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 3, 23, 30, 0, 0, time.UTC)
	rows := []struct {
		id     string
		amount string
		at     *time.Time
	}{
		{"a", "10", &day1},
		{"b", "15.5", &day1},
		{"c", "20", &day2},
		{"d", "99", nil},
	}
	for _, r := range rows {
		require.NoError(t, f.store.CreateCommission(ctx, &domain.Commission{
			ID:                r.id,
			AffiliateID:       a.ID,
			Type:              domain.CommissionManual,
			Amount:            dec(r.amount),
			Status:            domain.CommissionApproved,
			PayoutRequestedAt: r.at,
		}))
	}

	groups, err := f.payouts.ListPayoutRequests(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), groups[0].Date)
	assert.Equal(t, "20.00", groups[0].TotalAmount.StringFixed(2))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), groups[1].Date)
	assert.Equal(t, "25.50", groups[1].TotalAmount.StringFixed(2))
	assert.Len(t, groups[1].Commissions, 2)
}
