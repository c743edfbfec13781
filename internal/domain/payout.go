package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodPaypal || m == PaymentMethodBankTransfer
}

// PayoutSummary describes one payout request. Allocated may be lower than
// Requested because commissions are claimed whole; Partial flags that case.
type PayoutSummary struct {
	AffiliateID    string
	Method         PaymentMethod
	PaymentDetails map[string]string
	Requested      decimal.Decimal
	Allocated      decimal.Decimal
	Shortfall      decimal.Decimal
	Partial        bool
	Commissions    []*Commission
	RequestedAt    time.Time
}

type PayoutGroup struct {
	Date        time.Time
	RequestedAt time.Time
	Status      CommissionStatus
	TotalAmount decimal.Decimal
	Commissions []*Commission
}

// AllocateFIFO walks commissions in the given order and picks every one whose
// amount still fits into the remaining balance. Larger commissions are skipped,
// never split. The walk stops once the remaining balance is zero.
func AllocateFIFO(commissions []*Commission, amount decimal.Decimal) ([]*Commission, decimal.Decimal) {
	remaining := amount
	allocated := decimal.Zero
	var picked []*Commission

	for _, c := range commissions {
		if !remaining.IsPositive() {
			break
		}
		if c.Amount.GreaterThan(remaining) {
			continue
		}
		picked = append(picked, c)
		remaining = remaining.Sub(c.Amount)
		allocated = allocated.Add(c.Amount)
	}

	return picked, allocated
}

// GroupPayoutRequests buckets commissions by the UTC calendar date of their
// payout request. Input must be ordered newest request first; groups keep
// that order.
func GroupPayoutRequests(commissions []*Commission) []PayoutGroup {
	var groups []PayoutGroup
	for _, c := range commissions {
		if c.PayoutRequestedAt == nil {
			continue
		}
		at := c.PayoutRequestedAt.UTC()
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

		if n := len(groups); n == 0 || !groups[n-1].Date.Equal(day) {
			groups = append(groups, PayoutGroup{
				Date:        day,
				RequestedAt: at,
				Status:      c.Status,
				TotalAmount: decimal.Zero,
			})
		}
		g := &groups[len(groups)-1]
		g.TotalAmount = g.TotalAmount.Add(c.Amount)
		g.Commissions = append(g.Commissions, c)
	}
	return groups
}
