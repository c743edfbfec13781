package domain_test

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commissionsOf(amounts ...int64) []*domain.Commission {
	out := make([]*domain.Commission, len(amounts))
	for i, a := range amounts {
		out[i] = &domain.Commission{
			ID:     string(rune('a' + i)),
			Amount: decimal.NewFromInt(a),
			Status: domain.CommissionApproved,
		}
	}
	return out
}

func ids(cs []*domain.Commission) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestAllocateFIFO(t *testing.T) {
	tests := []struct {
		name      string
		amounts   []int64
		request   int64
		wantIDs   []string
		allocated int64
	}{
		{"skips commission larger than remainder", []int64{30, 45, 80}, 100, []string{"a", "b"}, 75},
		{"exact match stops the walk", []int64{40, 60, 10}, 100, []string{"a", "b"}, 100},
		{"keeps scanning after a skip", []int64{30, 80, 20}, 55, []string{"a", "c"}, 50},
		{"nothing fits", []int64{80, 90}, 50, nil, 0},
		{"takes everything when request covers all", []int64{10, 20}, 30, []string{"a", "b"}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picked, allocated := domain.AllocateFIFO(commissionsOf(tt.amounts...), decimal.NewFromInt(tt.request))
			if tt.wantIDs == nil {
				assert.Empty(t, picked)
			} else {
				assert.Equal(t, tt.wantIDs, ids(picked))
			}
			assert.True(t, decimal.NewFromInt(tt.allocated).Equal(allocated), "allocated %s", allocated)
		})
	}
}

func TestAllocateFIFOIsDeterministic(t *testing.T) {
	source := commissionsOf(12, 7, 33, 5, 18, 40)
	first, firstTotal := domain.AllocateFIFO(source, decimal.NewFromInt(45))
	for i := 0; i < 20; i++ {
		again, total := domain.AllocateFIFO(source, decimal.NewFromInt(45))
		require.Equal(t, ids(first), ids(again))
		require.True(t, firstTotal.Equal(total))
	}
}

func TestAllocateFIFOUsesExactDecimals(t *testing.T) {
	cs := make([]*domain.Commission, 10)
	for i := range cs {
		cs[i] = &domain.Commission{ID: string(rune('a' + i)), Amount: decimal.RequireFromString("0.10")}
	}
	picked, allocated := domain.AllocateFIFO(cs, decimal.RequireFromString("1.00"))
	assert.Len(t, picked, 10)
	assert.Equal(t, "1.00", allocated.StringFixed(2))
}

func TestGroupPayoutRequests(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 5, 17, 30, 0, 0, time.UTC)
	at := func(t time.Time) *time.Time { return &t }

	// newest first, as the repository returns them
	cs := []*domain.Commission{
		{ID: "c4", Amount: decimal.NewFromInt(10), Status: domain.CommissionApproved, PayoutRequestedAt: at(day2.Add(time.Minute))},
		{ID: "c3", Amount: decimal.NewFromInt(15), Status: domain.CommissionApproved, PayoutRequestedAt: at(day2)},
		{ID: "c2", Amount: decimal.NewFromInt(20), Status: domain.CommissionPaid, PayoutRequestedAt: at(day1.Add(time.Hour))},
		{ID: "c1", Amount: decimal.NewFromInt(5), Status: domain.CommissionPaid, PayoutRequestedAt: at(day1)},
		{ID: "c0", Amount: decimal.NewFromInt(99), Status: domain.CommissionApproved},
	}

	groups := domain.GroupPayoutRequests(cs)
	require.Len(t, groups, 2)

	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), groups[0].Date)
	assert.Equal(t, "25", groups[0].TotalAmount.String())
	assert.Equal(t, []string{"c4", "c3"}, ids(groups[0].Commissions))

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), groups[1].Date)
	assert.Equal(t, "25", groups[1].TotalAmount.String())
	assert.Equal(t, domain.CommissionPaid, groups[1].Status)
}

func TestPaymentProfileSupports(t *testing.T) {
	email := "me@example.com"
	blank := "  "
	account := "DE001"

	assert.True(t, domain.PaymentProfile{PaypalEmail: &email}.Supports(domain.PaymentMethodPaypal))
	assert.False(t, domain.PaymentProfile{PaypalEmail: &blank}.Supports(domain.PaymentMethodPaypal))
	assert.False(t, domain.PaymentProfile{PaypalEmail: &email}.Supports(domain.PaymentMethodBankTransfer))
	assert.True(t, domain.PaymentProfile{BankAccountNumber: &account}.Supports(domain.PaymentMethodBankTransfer))
	assert.False(t, domain.PaymentProfile{}.Supports(domain.PaymentMethod("crypto")))
}
