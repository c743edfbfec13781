package mappers

import (
	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainRateSettings(model *models.RateSettingsModel) *domain.RateSettings {
	return &domain.RateSettings{
		ID:                  model.ID,
		PrimaryPercentage:   model.PrimaryPercentage,
		ReferringPercentage: model.ReferringPercentage,
		IsActive:            model.IsActive,
		EffectiveFrom:       model.EffectiveFrom,
		CreatedAt:           model.CreatedAt,
	}
}

func ToGORMRateSettings(settings *domain.RateSettings) *models.RateSettingsModel {
	return &models.RateSettingsModel{
		ID:                  settings.ID,
		PrimaryPercentage:   settings.PrimaryPercentage,
		ReferringPercentage: settings.ReferringPercentage,
		IsActive:            settings.IsActive,
		EffectiveFrom:       settings.EffectiveFrom,
		CreatedAt:           settings.CreatedAt,
	}
}
