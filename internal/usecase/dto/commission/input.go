package commissiondto

import "github.com/shopspring/decimal"

type CreateManualCommissionInput struct {
	AffiliateID string          `json:"affiliate_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	// Type is manual when empty.
	Type string `json:"type,omitempty" validate:"omitempty,oneof=manual bonus"`
}

type ListCommissionsInput struct {
	AffiliateID string  `json:"affiliate_id" validate:"required"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved paid"`
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=primary referral bonus manual"`
	Page        int     `json:"page,omitempty" validate:"gte=0"`
	Limit       int     `json:"limit,omitempty" validate:"gte=0,lte=100"`
}
