package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultLeadRepository struct {
	DB *gorm.DB
}

func NewDefaultLeadRepository(db *gorm.DB) *DefaultLeadRepository {
	return &DefaultLeadRepository{
		DB: db,
	}
}

func (r *DefaultLeadRepository) CreateLead(ctx context.Context, lead *domain.Lead) error {
	model := mappers.ToGORMLead(lead)
	return translate(postgres.Conn(ctx, r.DB).Create(model).Error, "create lead")
}

func (r *DefaultLeadRepository) GetLeadByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	var model models.LeadModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "id = ?", leadID).Error; err != nil {
		return nil, translate(err, "lead "+leadID)
	}
	return mappers.ToDomainLead(&model), nil
}

func (r *DefaultLeadRepository) LeadCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := postgres.Conn(ctx, r.DB).
		Model(&models.LeadModel{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *DefaultLeadRepository) UpdateLeadContact(ctx context.Context, lead *domain.Lead) error {
	model := mappers.ToGORMLead(lead)
	res := postgres.Conn(ctx, r.DB).
		Model(&models.LeadModel{}).
		Where("id = ?", lead.ID).
		Updates(map[string]interface{}{
			"full_name":      model.FullName,
			"email":          model.Email,
			"phone":          model.Phone,
			"location_city":  model.LocationCity,
			"location_state": model.LocationState,
			"industry":       model.Industry,
			"notes":          model.Notes,
			"updated_at":     model.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "update lead")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "lead "+lead.ID)
	}
	return nil
}

func (r *DefaultLeadRepository) UpdateLeadStatus(ctx context.Context, lead *domain.Lead, expected domain.LeadStatus) error {
	res := postgres.Conn(ctx, r.DB).
		Model(&models.LeadModel{}).
		Where("id = ? AND status = ?", lead.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":       string(lead.Status),
			"admin_notes":  lead.AdminNotes,
			"converted_at": lead.ConvertedAt,
			"updated_at":   lead.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "update lead status")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := r.GetLeadByID(ctx, lead.ID); err != nil {
		return err
	}
	return fmt.Errorf("lead %s is no longer %s: %w", lead.ID, expected, domain.ErrConflict)
}

func (r *DefaultLeadRepository) CountLeads(ctx context.Context, filter domain.LeadFilter) (int64, error) {
	q := postgres.Conn(ctx, r.DB).Model(&models.LeadModel{})
	if filter.SubmittedByID != "" {
		q = q.Where("submitted_by_id = ?", filter.SubmittedByID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at < ?", *filter.CreatedTo)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *DefaultLeadRepository) CountLeadsByStatus(ctx context.Context, submitterID string) (map[domain.LeadStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	q := postgres.Conn(ctx, r.DB).
		Model(&models.LeadModel{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if submitterID != "" {
		q = q.Where("submitted_by_id = ?", submitterID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.LeadStatus]int64, len(domain.LeadStatuses))
	for _, s := range domain.LeadStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[domain.LeadStatus(row.Status)] = row.Count
	}
	return counts, nil
}
