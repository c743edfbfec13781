package usecase_test

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	affiliatedto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/affiliate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAffiliate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	referrer := f.affiliate(t, nil)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, referrer.ReferralCode)
	assert.Nil(t, referrer.ReferredByID)
	assert.Equal(t, domain.RoleAffiliate, referrer.Role)

	referred, err := f.affiliates.Register(ctx, &affiliatedto.RegisterAffiliateInput{
		Email:        "  New.Partner@Example.com ",
		ReferrerCode: &referrer.ReferralCode,
	})
	require.NoError(t, err)
	assert.Equal(t, "new.partner@example.com", referred.Email)
	require.NotNil(t, referred.ReferredByID)
	assert.Equal(t, referrer.ID, *referred.ReferredByID)
	assert.NotEqual(t, referrer.ReferralCode, referred.ReferralCode)
	assert.Equal(t, "new.partner@example.com", referred.FullName())

	stored, err := f.affiliates.Get(ctx, referred.ID)
	require.NoError(t, err)
	assert.Equal(t, referred.ReferralCode, stored.ReferralCode)
}

func TestRegisterAffiliateErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := f.affiliate(t, nil)

	tests := []struct {
		name  string
		input *affiliatedto.RegisterAffiliateInput
		want  error
	}{
		{"bad email", &affiliatedto.RegisterAffiliateInput{Email: "nope"}, domain.ErrValidation},
		{"bad role", &affiliatedto.RegisterAffiliateInput{Email: "x@example.com", Role: "root"}, domain.ErrValidation},
		{"unknown referrer", &affiliatedto.RegisterAffiliateInput{Email: "y@example.com", ReferrerCode: strPtr("ZZZZZZZZ")}, domain.ErrNotFound},
		{"duplicate email", &affiliatedto.RegisterAffiliateInput{Email: existing.Email}, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.affiliates.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdatePaymentProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.affiliate(t, nil)

	updated, err := f.affiliates.UpdatePaymentProfile(ctx, &affiliatedto.UpdatePaymentProfileInput{
		AffiliateID:       a.ID,
		BankAccountNumber: strPtr("0001234567"),
		BankRoutingNumber: strPtr("021000021"),
		BankAccountHolder: strPtr("Test Affiliate"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Payment.Supports(domain.PaymentMethodBankTransfer))
	assert.False(t, updated.Payment.Supports(domain.PaymentMethodPaypal))

	_, err = f.affiliates.UpdatePaymentProfile(ctx, &affiliatedto.UpdatePaymentProfileInput{AffiliateID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.affiliates.UpdatePaymentProfile(ctx, &affiliatedto.UpdatePaymentProfileInput{AffiliateID: a.ID, PaypalEmail: strPtr("bad")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
