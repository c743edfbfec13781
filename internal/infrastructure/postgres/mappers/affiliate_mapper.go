package mappers

import (
	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainAffiliate(model *models.AffiliateModel) *domain.Affiliate {
	return &domain.Affiliate{
		ID:           model.ID,
		Email:        model.Email,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Role:         domain.Role(model.Role),
		ReferralCode: model.ReferralCode,
		ReferredByID: model.ReferredByID,
		Payment: domain.PaymentProfile{
			PaypalEmail:       model.PaypalEmail,
			BankAccountNumber: model.BankAccountNumber,
			BankRoutingNumber: model.BankRoutingNumber,
			BankAccountHolder: model.BankAccountHolder,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMAffiliate(affiliate *domain.Affiliate) *models.AffiliateModel {
	return &models.AffiliateModel{
		ID:                affiliate.ID,
		Email:             affiliate.Email,
		FirstName:         affiliate.FirstName,
		LastName:          affiliate.LastName,
		Role:              string(affiliate.Role),
		ReferralCode:      affiliate.ReferralCode,
		ReferredByID:      affiliate.ReferredByID,
		PaypalEmail:       affiliate.Payment.PaypalEmail,
		BankAccountNumber: affiliate.Payment.BankAccountNumber,
		BankRoutingNumber: affiliate.Payment.BankRoutingNumber,
		BankAccountHolder: affiliate.Payment.BankAccountHolder,
		CreatedAt:         affiliate.CreatedAt,
		UpdatedAt:         affiliate.UpdatedAt,
	}
}
