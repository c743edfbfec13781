package payoutdto

import "github.com/shopspring/decimal"

type RequestPayoutInput struct {
	AffiliateID    string            `json:"affiliate_id" validate:"required"`
	Amount         decimal.Decimal   `json:"amount"`
	Method         string            `json:"method"`
	PaymentDetails map[string]string `json:"payment_details,omitempty"`
}
