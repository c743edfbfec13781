package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/metrics"
	commissiondto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CommissionUsecase interface {
	// OnLeadConverted creates the primary and, when the submitter was referred,
	// the referral commission. It joins the transaction carried by ctx and
	// publishes nothing; the caller does that after commit.
	OnLeadConverted(ctx context.Context, lead *domain.Lead, dealValue decimal.Decimal) ([]*domain.Commission, error)
	Approve(ctx context.Context, commissionID string) (*domain.Commission, error)
	MarkPaid(ctx context.Context, commissionID string) (*domain.Commission, error)
	CreateManual(ctx context.Context, input *commissiondto.CreateManualCommissionInput) (*domain.Commission, error)

	TotalByAffiliate(ctx context.Context, affiliateID string, status *domain.CommissionStatus) (decimal.Decimal, error)
	MonthlyEarnings(ctx context.Context, affiliateID string, year int, month time.Month) (decimal.Decimal, error)
	Summary(ctx context.Context, affiliateID string, now time.Time) (*domain.CommissionSummary, error)
	ListByAffiliate(ctx context.Context, input *commissiondto.ListCommissionsInput) (*commissiondto.ListCommissionsOutput, error)
}

type DefaultCommissionUsecase struct {
	commissionRepo domain.CommissionRepository
	affiliateRepo  domain.AffiliateRepository
	rates          RateSettingsUsecase
	tx             domain.Transactor
	events         *EventPublisher
	metrics        *metrics.AffiliateMetrics
	now            func() time.Time
}

func NewDefaultCommissionUsecase(
	commissionRepo domain.CommissionRepository,
	affiliateRepo domain.AffiliateRepository,
	rates RateSettingsUsecase,
	tx domain.Transactor,
	events *EventPublisher,
	affiliateMetrics *metrics.AffiliateMetrics,
) *DefaultCommissionUsecase {
	return &DefaultCommissionUsecase{
		commissionRepo: commissionRepo,
		affiliateRepo:  affiliateRepo,
		rates:          rates,
		tx:             tx,
		events:         events,
		metrics:        affiliateMetrics,
		now:            time.Now,
	}
}

func (uc *DefaultCommissionUsecase) OnLeadConverted(ctx context.Context, lead *domain.Lead, dealValue decimal.Decimal) ([]*domain.Commission, error) {
	if !dealValue.IsPositive() {
		return nil, fmt.Errorf("%w: deal value must be positive", domain.ErrInvalidAmount)
	}

	var created []*domain.Commission
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		settings, err := uc.rates.LoadActive(ctx)
		if err != nil {
			return err
		}
		submitter, err := uc.affiliateRepo.GetAffiliateByID(ctx, lead.SubmittedByID)
		if err != nil {
			return fmt.Errorf("lead submitter: %w", err)
		}

		now := uc.now().UTC()
		leadID := lead.ID
		created = append(created, &domain.Commission{
			ID:          uuid.New().String(),
			AffiliateID: submitter.ID,
			LeadID:      &leadID,
			Type:        domain.CommissionPrimary,
			Percentage:  settings.PrimaryPercentage,
			Amount:      percentOf(dealValue, settings.PrimaryPercentage),
			Status:      domain.CommissionPending,
			CreatedAt:   now,
		})
		if submitter.ReferredByID != nil {
			created = append(created, &domain.Commission{
				ID:          uuid.New().String(),
				AffiliateID: *submitter.ReferredByID,
				LeadID:      &leadID,
				Type:        domain.CommissionReferral,
				Percentage:  settings.ReferringPercentage,
				Amount:      percentOf(dealValue, settings.ReferringPercentage),
				Status:      domain.CommissionPending,
				CreatedAt:   now,
			})
		}

		for _, c := range created {
			if err := uc.commissionRepo.CreateCommission(ctx, c); err != nil {
				return fmt.Errorf("create %s commission: %w", c.Type, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *DefaultCommissionUsecase) Approve(ctx context.Context, commissionID string) (*domain.Commission, error) {
	return uc.advance(ctx, commissionID, EventCommissionApproved, domain.CommissionPending, (*domain.Commission).Approve)
}

func (uc *DefaultCommissionUsecase) MarkPaid(ctx context.Context, commissionID string) (*domain.Commission, error) {
	return uc.advance(ctx, commissionID, EventCommissionPaid, domain.CommissionApproved, (*domain.Commission).MarkPaid)
}

func (uc *DefaultCommissionUsecase) advance(
	ctx context.Context,
	commissionID, eventType string,
	from domain.CommissionStatus,
	step func(*domain.Commission, time.Time) error,
) (_ *domain.Commission, err error) {
	defer uc.metrics.ObserveOperation(eventType, time.Now(), &err)

	var commission *domain.Commission
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.commissionRepo.GetCommissionByID(ctx, commissionID)
		if err != nil {
			return err
		}
		if err := step(c, uc.now().UTC()); err != nil {
			return err
		}
		if err := uc.commissionRepo.UpdateCommissionStatus(ctx, c, from); err != nil {
			return err
		}
		commission = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordCommissionStatus(string(commission.Status))
	uc.events.Publish(ctx, commissionEvent(eventType, commission, uc.now().UTC()))
	return commission, nil
}

// CreateManual records an administrator adjustment. It is approved on creation
// and carries no lead.
func (uc *DefaultCommissionUsecase) CreateManual(ctx context.Context, input *commissiondto.CreateManualCommissionInput) (_ *domain.Commission, err error) {
	defer uc.metrics.ObserveOperation("create_manual_commission", time.Now(), &err)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	commissionType := domain.CommissionManual
	if input.Type != "" {
		commissionType = domain.CommissionType(input.Type)
	}

	now := uc.now().UTC()
	commission := &domain.Commission{
		ID:          uuid.New().String(),
		AffiliateID: input.AffiliateID,
		Type:        commissionType,
		Percentage:  decimal.Zero,
		Amount:      input.Amount.Round(2),
		Description: input.Description,
		Status:      domain.CommissionApproved,
		ApprovedAt:  &now,
		CreatedAt:   now,
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.affiliateRepo.GetAffiliateByID(ctx, input.AffiliateID); err != nil {
			return err
		}
		return uc.commissionRepo.CreateCommission(ctx, commission)
	})
	if err != nil {
		return nil, fmt.Errorf("create manual commission: %w", err)
	}

	uc.metrics.RecordCommissionCreated(string(commission.Type), commission.Amount)
	uc.events.Publish(ctx, commissionEvent(EventCommissionCreated, commission, now))
	slog.Info("manual commission created",
		"commission_id", commission.ID,
		"affiliate_id", commission.AffiliateID,
		"type", commission.Type,
		"amount", commission.Amount.StringFixed(2),
	)
	return commission, nil
}

func (uc *DefaultCommissionUsecase) TotalByAffiliate(ctx context.Context, affiliateID string, status *domain.CommissionStatus) (decimal.Decimal, error) {
	if status != nil && !status.Valid() {
		return decimal.Zero, fmt.Errorf("%w: commission status %q", domain.ErrInvalidStatus, *status)
	}
	return uc.commissionRepo.SumCommissions(ctx, domain.CommissionFilter{
		AffiliateID: affiliateID,
		Status:      status,
	})
}

// MonthlyEarnings sums paid commissions whose paid_at falls inside the UTC month.
func (uc *DefaultCommissionUsecase) MonthlyEarnings(ctx context.Context, affiliateID string, year int, month time.Month) (decimal.Decimal, error) {
	if month < time.January || month > time.December {
		return decimal.Zero, fmt.Errorf("%w: month %d", domain.ErrValidation, month)
	}
	from, to := monthBounds(year, month)
	return uc.paidBetween(ctx, affiliateID, from, to)
}

func (uc *DefaultCommissionUsecase) Summary(ctx context.Context, affiliateID string, now time.Time) (*domain.CommissionSummary, error) {
	var (
		summary domain.CommissionSummary
		err     error
	)

	totals := []struct {
		status domain.CommissionStatus
		dst    *decimal.Decimal
	}{
		{domain.CommissionPaid, &summary.TotalEarned},
		{domain.CommissionPending, &summary.TotalPending},
		{domain.CommissionApproved, &summary.TotalApproved},
	}
	for _, t := range totals {
		status := t.status
		if *t.dst, err = uc.TotalByAffiliate(ctx, affiliateID, &status); err != nil {
			return nil, err
		}
	}

	now = now.UTC()
	thisMonth, nextMonth := monthBounds(now.Year(), now.Month())
	prevMonth := thisMonth.AddDate(0, -1, 0)
	if summary.CurrentMonthEarnings, err = uc.paidBetween(ctx, affiliateID, thisMonth, nextMonth); err != nil {
		return nil, err
	}
	if summary.PreviousMonthEarnings, err = uc.paidBetween(ctx, affiliateID, prevMonth, thisMonth); err != nil {
		return nil, err
	}

	paid := domain.CommissionPaid
	primary, referral := domain.CommissionPrimary, domain.CommissionReferral
	if summary.PaidPrimaryCount, err = uc.commissionRepo.CountCommissions(ctx, domain.CommissionFilter{
		AffiliateID: affiliateID, Status: &paid, Type: &primary,
	}); err != nil {
		return nil, err
	}
	if summary.PaidReferralCount, err = uc.commissionRepo.CountCommissions(ctx, domain.CommissionFilter{
		AffiliateID: affiliateID, Status: &paid, Type: &referral,
	}); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (uc *DefaultCommissionUsecase) ListByAffiliate(ctx context.Context, input *commissiondto.ListCommissionsInput) (*commissiondto.ListCommissionsOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	filter := domain.CommissionFilter{
		AffiliateID: input.AffiliateID,
		Page:        input.Page,
		Limit:       input.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if input.Status != nil {
		s := domain.CommissionStatus(*input.Status)
		filter.Status = &s
	}
	if input.Type != nil {
		t := domain.CommissionType(*input.Type)
		filter.Type = &t
	}

	commissions, total, err := uc.commissionRepo.ListCommissions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &commissiondto.ListCommissionsOutput{
		Commissions: commissions,
		Total:       total,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}, nil
}

func (uc *DefaultCommissionUsecase) paidBetween(ctx context.Context, affiliateID string, from, to time.Time) (decimal.Decimal, error) {
	paid := domain.CommissionPaid
	return uc.commissionRepo.SumCommissions(ctx, domain.CommissionFilter{
		AffiliateID: affiliateID,
		Status:      &paid,
		PaidFrom:    &from,
		PaidTo:      &to,
	})
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// percentOf returns value*percent/100 exactly, so the primary and referral
// amounts of one conversion add up to the combined rate.
func percentOf(value, percent decimal.Decimal) decimal.Decimal {
	return value.Mul(percent).Shift(-2)
}
