package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateSettings is one immutable version of the commission percentages.
type RateSettings struct {
	ID                  string
	PrimaryPercentage   decimal.Decimal
	ReferringPercentage decimal.Decimal
	IsActive            bool
	EffectiveFrom       time.Time
	CreatedAt           time.Time
}

type RateSettingsRepository interface {
	// GetActiveRateSettings returns ErrNotFound when no row is active.
	GetActiveRateSettings(ctx context.Context) (*RateSettings, error)
	CreateRateSettings(ctx context.Context, settings *RateSettings) error
	DeactivateAllRateSettings(ctx context.Context) error
	// ListRateSettings returns every version, newest first.
	ListRateSettings(ctx context.Context) ([]*RateSettings, error)
}

// RateSettingsCache keeps the active row close to the conversion path.
// Get returns nil, nil on a miss.
type RateSettingsCache interface {
	Get(ctx context.Context) (*RateSettings, error)
	Set(ctx context.Context, settings *RateSettings) error
	Invalidate(ctx context.Context) error
}

// CommissionPolicy holds the engine defaults resolved once from configuration.
type CommissionPolicy struct {
	DefaultPrimaryPercent   decimal.Decimal
	DefaultReferringPercent decimal.Decimal
	DefaultDealValue        decimal.Decimal
	MinimumPayoutAmount     decimal.Decimal
	LeadCodePrefix          string
	LeadCodeDigits          int
	ReferralTreeDepth       int
}

func DefaultCommissionPolicy() CommissionPolicy {
	return CommissionPolicy{
		DefaultPrimaryPercent:   decimal.NewFromInt(50),
		DefaultReferringPercent: decimal.NewFromInt(25),
		DefaultDealValue:        decimal.NewFromInt(1000),
		MinimumPayoutAmount:     decimal.Zero,
		LeadCodePrefix:          "LEAD",
		LeadCodeDigits:          3,
		ReferralTreeDepth:       2,
	}
}
