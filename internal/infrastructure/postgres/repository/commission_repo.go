package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCommissionRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRepository(db *gorm.DB) *DefaultCommissionRepository {
	return &DefaultCommissionRepository{
		DB: db,
	}
}

func (r *DefaultCommissionRepository) CreateCommission(ctx context.Context, commission *domain.Commission) error {
	model := mappers.ToGORMCommission(commission)
	return translate(postgres.Conn(ctx, r.DB).Create(model).Error, "create commission")
}

func (r *DefaultCommissionRepository) GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	var model models.CommissionModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "id = ?", commissionID).Error; err != nil {
		return nil, translate(err, "commission "+commissionID)
	}
	return mappers.ToDomainCommission(&model), nil
}

func (r *DefaultCommissionRepository) UpdateCommissionStatus(ctx context.Context, commission *domain.Commission, expected domain.CommissionStatus) error {
	res := postgres.Conn(ctx, r.DB).
		Model(&models.CommissionModel{}).
		Where("id = ? AND status = ?", commission.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":      string(commission.Status),
			"approved_at": commission.ApprovedAt,
			"paid_at":     commission.PaidAt,
		})
	if res.Error != nil {
		return translate(res.Error, "update commission status")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := r.GetCommissionByID(ctx, commission.ID); err != nil {
		return err
	}
	return fmt.Errorf("commission %s is no longer %s: %w", commission.ID, expected, domain.ErrConflict)
}

func (r *DefaultCommissionRepository) SumCommissions(ctx context.Context, filter domain.CommissionFilter) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := applyCommissionFilter(postgres.Conn(ctx, r.DB).Model(&models.CommissionModel{}), filter).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *DefaultCommissionRepository) CountCommissions(ctx context.Context, filter domain.CommissionFilter) (int64, error) {
	var count int64
	err := applyCommissionFilter(postgres.Conn(ctx, r.DB).Model(&models.CommissionModel{}), filter).
		Count(&count).Error
	return count, err
}

func (r *DefaultCommissionRepository) ListCommissions(ctx context.Context, filter domain.CommissionFilter) ([]*domain.Commission, int64, error) {
	q := applyCommissionFilter(postgres.Conn(ctx, r.DB).Model(&models.CommissionModel{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var list []models.CommissionModel
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return mappers.ToDomainCommissions(list), total, nil
}

func (r *DefaultCommissionRepository) LockClaimableCommissions(ctx context.Context, affiliateID string) ([]*domain.Commission, error) {
	var list []models.CommissionModel
	if err := postgres.Conn(ctx, r.DB).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("affiliate_id = ? AND status = ? AND payout_requested_at IS NULL", affiliateID, string(domain.CommissionApproved)).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainCommissions(list), nil
}

func (r *DefaultCommissionRepository) MarkPayoutRequested(ctx context.Context, commissionIDs []string, at time.Time) error {
	if len(commissionIDs) == 0 {
		return nil
	}
	res := postgres.Conn(ctx, r.DB).
		Model(&models.CommissionModel{}).
		Where("id IN ? AND payout_requested_at IS NULL", commissionIDs).
		Update("payout_requested_at", at)
	if res.Error != nil {
		return translate(res.Error, "mark payout requested")
	}
	if res.RowsAffected != int64(len(commissionIDs)) {
		return fmt.Errorf("marked %d of %d commissions: %w", res.RowsAffected, len(commissionIDs), domain.ErrConflict)
	}
	return nil
}

func (r *DefaultCommissionRepository) ListPayoutRequested(ctx context.Context, affiliateID string) ([]*domain.Commission, error) {
	var list []models.CommissionModel
	if err := postgres.Conn(ctx, r.DB).
		Where("affiliate_id = ? AND payout_requested_at IS NOT NULL", affiliateID).
		Order("payout_requested_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainCommissions(list), nil
}

func applyCommissionFilter(q *gorm.DB, filter domain.CommissionFilter) *gorm.DB {
	if filter.AffiliateID != "" {
		q = q.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		q = q.Where("type = ?", string(*filter.Type))
	}
	if filter.PaidFrom != nil {
		q = q.Where("paid_at >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		q = q.Where("paid_at < ?", *filter.PaidTo)
	}
	return q
}
