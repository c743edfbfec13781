package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CommissionType string

const (
	CommissionPrimary  CommissionType = "primary"
	CommissionReferral CommissionType = "referral"
	CommissionBonus    CommissionType = "bonus"
	CommissionManual   CommissionType = "manual"
)

func (t CommissionType) Valid() bool {
	switch t {
	case CommissionPrimary, CommissionReferral, CommissionBonus, CommissionManual:
		return true
	}
	return false
}

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionPaid     CommissionStatus = "paid"
)

func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPending, CommissionApproved, CommissionPaid:
		return true
	}
	return false
}

type Commission struct {
	ID                string
	AffiliateID       string
	LeadID            *string
	Type              CommissionType
	Percentage        decimal.Decimal
	Amount            decimal.Decimal
	Description       *string
	Status            CommissionStatus
	PayoutRequestedAt *time.Time
	ApprovedAt        *time.Time
	PaidAt            *time.Time
	CreatedAt         time.Time
}

// Approve moves a pending commission to approved.
func (c *Commission) Approve(at time.Time) error {
	if c.Status != CommissionPending {
		return fmt.Errorf("%w: commission %s is %s, want %s", ErrInvalidTransition, c.ID, c.Status, CommissionPending)
	}
	c.Status = CommissionApproved
	c.ApprovedAt = &at
	return nil
}

// MarkPaid moves an approved commission to paid.
func (c *Commission) MarkPaid(at time.Time) error {
	if c.Status != CommissionApproved {
		return fmt.Errorf("%w: commission %s is %s, want %s", ErrInvalidTransition, c.ID, c.Status, CommissionApproved)
	}
	c.Status = CommissionPaid
	c.PaidAt = &at
	return nil
}

// CommissionFilter narrows listing and aggregate queries. Nil fields are
// ignored and PaidTo is exclusive.
type CommissionFilter struct {
	AffiliateID string
	Status      *CommissionStatus
	Type        *CommissionType
	PaidFrom    *time.Time
	PaidTo      *time.Time
	Page        int
	Limit       int
}

type CommissionRepository interface {
	CreateCommission(ctx context.Context, commission *Commission) error
	GetCommissionByID(ctx context.Context, commissionID string) (*Commission, error)
	// UpdateCommissionStatus persists Status, ApprovedAt and PaidAt if the stored
	// status still equals expected. Otherwise it returns ErrConflict.
	UpdateCommissionStatus(ctx context.Context, commission *Commission, expected CommissionStatus) error
	SumCommissions(ctx context.Context, filter CommissionFilter) (decimal.Decimal, error)
	CountCommissions(ctx context.Context, filter CommissionFilter) (int64, error)
	// ListCommissions returns a page ordered newest first and the total match count.
	ListCommissions(ctx context.Context, filter CommissionFilter) ([]*Commission, int64, error)
	// LockClaimableCommissions returns approved commissions without a payout
	// request, oldest first, locked until the surrounding transaction ends.
	LockClaimableCommissions(ctx context.Context, affiliateID string) ([]*Commission, error)
	MarkPayoutRequested(ctx context.Context, commissionIDs []string, at time.Time) error
	// ListPayoutRequested returns commissions with a payout request, newest request first.
	ListPayoutRequested(ctx context.Context, affiliateID string) ([]*Commission, error)
}

type CommissionSummary struct {
	TotalEarned           decimal.Decimal
	TotalPending          decimal.Decimal
	TotalApproved         decimal.Decimal
	CurrentMonthEarnings  decimal.Decimal
	PreviousMonthEarnings decimal.Decimal
	PaidPrimaryCount      int64
	PaidReferralCount     int64
}
