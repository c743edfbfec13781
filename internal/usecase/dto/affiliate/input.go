package affiliatedto

type RegisterAffiliateInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=affiliate admin"`
	// ReferrerCode is the referral code of the affiliate who invited this one.
	ReferrerCode *string `json:"referrer_code,omitempty" validate:"omitempty,len=8,alphanum"`
}

type UpdatePaymentProfileInput struct {
	AffiliateID       string  `json:"affiliate_id" validate:"required"`
	PaypalEmail       *string `json:"paypal_email,omitempty" validate:"omitempty,email"`
	BankAccountNumber *string `json:"bank_account_number,omitempty" validate:"omitempty,max=64"`
	BankRoutingNumber *string `json:"bank_routing_number,omitempty" validate:"omitempty,max=64"`
	BankAccountHolder *string `json:"bank_account_holder,omitempty" validate:"omitempty,max=255"`
}
