package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleAffiliate Role = "affiliate"
	RoleAdmin     Role = "admin"
)

type Affiliate struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	ReferralCode string
	ReferredByID *string
	Payment      PaymentProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName falls back to the email when either name part is missing.
func (a *Affiliate) FullName() string {
	if a.FirstName != "" && a.LastName != "" {
		return a.FirstName + " " + a.LastName
	}
	return a.Email
}

type PaymentProfile struct {
	PaypalEmail       *string
	BankAccountNumber *string
	BankRoutingNumber *string
	BankAccountHolder *string
}

// Supports reports whether the profile carries the details the method needs.
func (p PaymentProfile) Supports(method PaymentMethod) bool {
	switch method {
	case PaymentMethodPaypal:
		return present(p.PaypalEmail)
	case PaymentMethodBankTransfer:
		return present(p.BankAccountNumber)
	}
	return false
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

type AffiliateRepository interface {
	CreateAffiliate(ctx context.Context, affiliate *Affiliate) error
	GetAffiliateByID(ctx context.Context, affiliateID string) (*Affiliate, error)
	GetAffiliateByReferralCode(ctx context.Context, code string) (*Affiliate, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	UpdatePaymentProfile(ctx context.Context, affiliateID string, profile PaymentProfile) error
	// ListReferrals returns the affiliates directly referred by affiliateID, oldest first.
	ListReferrals(ctx context.Context, affiliateID string) ([]*Affiliate, error)
}
