package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	affiliatedto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/affiliate"
	"github.com/google/uuid"
)

type AffiliateUsecase interface {
	Register(ctx context.Context, input *affiliatedto.RegisterAffiliateInput) (*domain.Affiliate, error)
	UpdatePaymentProfile(ctx context.Context, input *affiliatedto.UpdatePaymentProfileInput) (*domain.Affiliate, error)
	Get(ctx context.Context, affiliateID string) (*domain.Affiliate, error)
}

type DefaultAffiliateUsecase struct {
	affiliateRepo domain.AffiliateRepository
	tx            domain.Transactor
	now           func() time.Time
}

func NewDefaultAffiliateUsecase(affiliateRepo domain.AffiliateRepository, tx domain.Transactor) *DefaultAffiliateUsecase {
	return &DefaultAffiliateUsecase{
		affiliateRepo: affiliateRepo,
		tx:            tx,
		now:           time.Now,
	}
}

// Register creates an affiliate with a fresh referral code and links it to
// the owner of ReferrerCode when one is given.
func (uc *DefaultAffiliateUsecase) Register(ctx context.Context, input *affiliatedto.RegisterAffiliateInput) (*domain.Affiliate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	nextCode, err := referralCodeGenerator()
	if err != nil {
		return nil, fmt.Errorf("referral code generator: %w", err)
	}

	role := domain.RoleAffiliate
	if input.Role != "" {
		role = domain.Role(input.Role)
	}
	now := uc.now().UTC()
	affiliate := &domain.Affiliate{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.ReferrerCode != nil {
			referrer, err := uc.affiliateRepo.GetAffiliateByReferralCode(ctx, strings.ToUpper(*input.ReferrerCode))
			if err != nil {
				return fmt.Errorf("referrer: %w", err)
			}
			affiliate.ReferredByID = &referrer.ID
		}

		code, err := uniqueCode(ctx, nextCode, uc.affiliateRepo.ReferralCodeExists)
		if err != nil {
			return err
		}
		affiliate.ReferralCode = code
		return uc.affiliateRepo.CreateAffiliate(ctx, affiliate)
	})
	if err != nil {
		return nil, fmt.Errorf("register affiliate: %w", err)
	}

	slog.Info("affiliate registered", "affiliate_id", affiliate.ID, "referral_code", affiliate.ReferralCode)
	return affiliate, nil
}

// UpdatePaymentProfile overwrites every payout detail with the given values.
func (uc *DefaultAffiliateUsecase) UpdatePaymentProfile(ctx context.Context, input *affiliatedto.UpdatePaymentProfileInput) (*domain.Affiliate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var affiliate *domain.Affiliate
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		profile := domain.PaymentProfile{
			PaypalEmail:       input.PaypalEmail,
			BankAccountNumber: input.BankAccountNumber,
			BankRoutingNumber: input.BankRoutingNumber,
			BankAccountHolder: input.BankAccountHolder,
		}
		if err := uc.affiliateRepo.UpdatePaymentProfile(ctx, input.AffiliateID, profile); err != nil {
			return err
		}
		a, err := uc.affiliateRepo.GetAffiliateByID(ctx, input.AffiliateID)
		if err != nil {
			return err
		}
		affiliate = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update payment profile: %w", err)
	}
	return affiliate, nil
}

func (uc *DefaultAffiliateUsecase) Get(ctx context.Context, affiliateID string) (*domain.Affiliate, error) {
	return uc.affiliateRepo.GetAffiliateByID(ctx, affiliateID)
}
