package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TreeNode is one affiliate in a referral tree. Level 0 is the root.
type TreeNode struct {
	AffiliateID         string
	Name                string
	Email               string
	ReferralCode        string
	Level               int
	LeadCount           int64
	TotalPaidCommission decimal.Decimal
	JoinedAt            time.Time
	Children            []*TreeNode
}

type ReferralStats struct {
	DirectCount             int
	ActiveCount             int
	Level1Count             int
	Level2Count             int
	TotalReferralCommission decimal.Decimal
}
