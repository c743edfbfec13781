package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAffiliateRepository struct {
	DB *gorm.DB
}

func NewDefaultAffiliateRepository(db *gorm.DB) *DefaultAffiliateRepository {
	return &DefaultAffiliateRepository{
		DB: db,
	}
}

func (r *DefaultAffiliateRepository) CreateAffiliate(ctx context.Context, affiliate *domain.Affiliate) error {
	model := mappers.ToGORMAffiliate(affiliate)
	return translate(postgres.Conn(ctx, r.DB).Create(model).Error, "create affiliate")
}

func (r *DefaultAffiliateRepository) GetAffiliateByID(ctx context.Context, affiliateID string) (*domain.Affiliate, error) {
	var model models.AffiliateModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "id = ?", affiliateID).Error; err != nil {
		return nil, translate(err, "affiliate "+affiliateID)
	}
	return mappers.ToDomainAffiliate(&model), nil
}

func (r *DefaultAffiliateRepository) GetAffiliateByReferralCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	var model models.AffiliateModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "referral_code = ?", code).Error; err != nil {
		return nil, translate(err, "referral code "+code)
	}
	return mappers.ToDomainAffiliate(&model), nil
}

func (r *DefaultAffiliateRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := postgres.Conn(ctx, r.DB).
		Model(&models.AffiliateModel{}).
		Where("referral_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *DefaultAffiliateRepository) UpdatePaymentProfile(ctx context.Context, affiliateID string, profile domain.PaymentProfile) error {
	res := postgres.Conn(ctx, r.DB).
		Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"paypal_email":        profile.PaypalEmail,
			"bank_account_number": profile.BankAccountNumber,
			"bank_routing_number": profile.BankRoutingNumber,
			"bank_account_holder": profile.BankAccountHolder,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error, "update payment profile")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "affiliate "+affiliateID)
	}
	return nil
}

func (r *DefaultAffiliateRepository) ListReferrals(ctx context.Context, affiliateID string) ([]*domain.Affiliate, error) {
	var list []models.AffiliateModel
	if err := postgres.Conn(ctx, r.DB).
		Where("referred_by_id = ?", affiliateID).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}

	affiliates := make([]*domain.Affiliate, len(list))
	for i := range list {
		affiliates[i] = mappers.ToDomainAffiliate(&list[i])
	}
	return affiliates, nil
}
