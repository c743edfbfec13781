package mappers

import (
	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainCommission(model *models.CommissionModel) *domain.Commission {
	return &domain.Commission{
		ID:                model.ID,
		AffiliateID:       model.AffiliateID,
		LeadID:            model.LeadID,
		Type:              domain.CommissionType(model.Type),
		Percentage:        model.Percentage,
		Amount:            model.Amount,
		Description:       model.Description,
		Status:            domain.CommissionStatus(model.Status),
		PayoutRequestedAt: model.PayoutRequestedAt,
		ApprovedAt:        model.ApprovedAt,
		PaidAt:            model.PaidAt,
		CreatedAt:         model.CreatedAt,
	}
}

func ToGORMCommission(commission *domain.Commission) *models.CommissionModel {
	return &models.CommissionModel{
		ID:                commission.ID,
		AffiliateID:       commission.AffiliateID,
		LeadID:            commission.LeadID,
		Type:              string(commission.Type),
		Percentage:        commission.Percentage,
		Amount:            commission.Amount,
		Description:       commission.Description,
		Status:            string(commission.Status),
		PayoutRequestedAt: commission.PayoutRequestedAt,
		ApprovedAt:        commission.ApprovedAt,
		PaidAt:            commission.PaidAt,
		CreatedAt:         commission.CreatedAt,
	}
}

func ToDomainCommissions(list []models.CommissionModel) []*domain.Commission {
	out := make([]*domain.Commission, len(list))
	for i := range list {
		out[i] = ToDomainCommission(&list[i])
	}
	return out
}
