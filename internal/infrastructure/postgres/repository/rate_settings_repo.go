package repository

import (
	"context"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRateSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultRateSettingsRepository(db *gorm.DB) *DefaultRateSettingsRepository {
	return &DefaultRateSettingsRepository{
		DB: db,
	}
}

func (r *DefaultRateSettingsRepository) GetActiveRateSettings(ctx context.Context) (*domain.RateSettings, error) {
	var model models.RateSettingsModel
	if err := postgres.Conn(ctx, r.DB).
		Where("is_active = ?", true).
		Order("effective_from DESC").
		First(&model).Error; err != nil {
		return nil, translate(err, "active rate settings")
	}
	return mappers.ToDomainRateSettings(&model), nil
}

// CreateRateSettings fails with ErrConflict when another row is still active;
// the partial unique index on is_active enforces that.
func (r *DefaultRateSettingsRepository) CreateRateSettings(ctx context.Context, settings *domain.RateSettings) error {
	model := mappers.ToGORMRateSettings(settings)
	return translate(postgres.Conn(ctx, r.DB).Create(model).Error, "create rate settings")
}

func (r *DefaultRateSettingsRepository) DeactivateAllRateSettings(ctx context.Context) error {
	return postgres.Conn(ctx, r.DB).
		Model(&models.RateSettingsModel{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *DefaultRateSettingsRepository) ListRateSettings(ctx context.Context) ([]*domain.RateSettings, error) {
	var list []models.RateSettingsModel
	if err := postgres.Conn(ctx, r.DB).
		Order("effective_from DESC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}

	settings := make([]*domain.RateSettings, len(list))
	for i := range list {
		settings[i] = mappers.ToDomainRateSettings(&list[i])
	}
	return settings, nil
}
