package mappers

import (
	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainLead(model *models.LeadModel) *domain.Lead {
	return &domain.Lead{
		ID:   model.ID,
		Code: model.Code,
		Contact: domain.LeadContact{
			FullName:      model.FullName,
			Email:         model.Email,
			Phone:         model.Phone,
			LocationCity:  model.LocationCity,
			LocationState: model.LocationState,
			Industry:      model.Industry,
			Notes:         model.Notes,
		},
		SubmittedByID:       model.SubmittedByID,
		SecondaryReferrerID: model.SecondaryReferrerID,
		Status:              domain.LeadStatus(model.Status),
		AdminNotes:          model.AdminNotes,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
		ConvertedAt:         model.ConvertedAt,
	}
}

func ToGORMLead(lead *domain.Lead) *models.LeadModel {
	return &models.LeadModel{
		ID:                  lead.ID,
		Code:                lead.Code,
		FullName:            lead.Contact.FullName,
		Email:               lead.Contact.Email,
		Phone:               lead.Contact.Phone,
		LocationCity:        lead.Contact.LocationCity,
		LocationState:       lead.Contact.LocationState,
		Industry:            lead.Contact.Industry,
		Notes:               lead.Contact.Notes,
		SubmittedByID:       lead.SubmittedByID,
		SecondaryReferrerID: lead.SecondaryReferrerID,
		Status:              string(lead.Status),
		AdminNotes:          lead.AdminNotes,
		CreatedAt:           lead.CreatedAt,
		UpdatedAt:           lead.UpdatedAt,
		ConvertedAt:         lead.ConvertedAt,
	}
}
