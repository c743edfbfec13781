package leaddto

import "github.com/shopspring/decimal"

type SubmitLeadInput struct {
	SubmittedByID       string  `json:"submitted_by_id" validate:"required"`
	FullName            string  `json:"full_name" validate:"required,max=255"`
	Email               *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	LocationCity        *string `json:"location_city,omitempty" validate:"omitempty,max=100"`
	LocationState       *string `json:"location_state,omitempty" validate:"omitempty,max=100"`
	Industry            *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Notes               *string `json:"notes,omitempty"`
	SecondaryReferrerID *string `json:"secondary_referrer_id,omitempty"`
}

// UpdateLeadInput edits contact fields. Nil fields stay unchanged.
type UpdateLeadInput struct {
	LeadID        string  `json:"lead_id" validate:"required"`
	SubmitterID   string  `json:"submitter_id" validate:"required"`
	FullName      *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	LocationCity  *string `json:"location_city,omitempty" validate:"omitempty,max=100"`
	LocationState *string `json:"location_state,omitempty" validate:"omitempty,max=100"`
	Industry      *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Notes         *string `json:"notes,omitempty"`
}

type TransitionLeadInput struct {
	LeadID string  `json:"lead_id" validate:"required"`
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note,omitempty"`
	// DealValue applies only when Status is sold. The configured default is used when nil.
	DealValue *decimal.Decimal `json:"deal_value,omitempty"`
}

type ConvertLeadInput struct {
	LeadID    string          `json:"lead_id" validate:"required"`
	DealValue decimal.Decimal `json:"deal_value"`
	Note      *string         `json:"note,omitempty"`
}
