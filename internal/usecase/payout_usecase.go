package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/metrics"
	payoutdto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/payout"
)

type PayoutUsecase interface {
	// RequestPayout claims approved commissions oldest first until the amount
	// is covered. Commissions are never split, so the result may be partial.
	RequestPayout(ctx context.Context, input *payoutdto.RequestPayoutInput) (*domain.PayoutSummary, error)
	ListPayoutRequests(ctx context.Context, affiliateID string) ([]domain.PayoutGroup, error)
}

type DefaultPayoutUsecase struct {
	commissionRepo domain.CommissionRepository
	affiliateRepo  domain.AffiliateRepository
	commissions    CommissionUsecase
	tx             domain.Transactor
	policy         domain.CommissionPolicy
	events         *EventPublisher
	metrics        *metrics.AffiliateMetrics
	now            func() time.Time
}

func NewDefaultPayoutUsecase(
	commissionRepo domain.CommissionRepository,
	affiliateRepo domain.AffiliateRepository,
	commissions CommissionUsecase,
	tx domain.Transactor,
	policy domain.CommissionPolicy,
	events *EventPublisher,
	affiliateMetrics *metrics.AffiliateMetrics,
) *DefaultPayoutUsecase {
	return &DefaultPayoutUsecase{
		commissionRepo: commissionRepo,
		affiliateRepo:  affiliateRepo,
		commissions:    commissions,
		tx:             tx,
		policy:         policy,
		events:         events,
		metrics:        affiliateMetrics,
		now:            time.Now,
	}
}

func (uc *DefaultPayoutUsecase) RequestPayout(ctx context.Context, input *payoutdto.RequestPayoutInput) (_ *domain.PayoutSummary, err error) {
	defer uc.metrics.ObserveOperation("request_payout", time.Now(), &err)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if input.Amount.LessThan(uc.policy.MinimumPayoutAmount) {
		return nil, fmt.Errorf("%w: minimum payout is %s", domain.ErrInvalidAmount, uc.policy.MinimumPayoutAmount.StringFixed(2))
	}

	method := domain.PaymentMethod(input.Method)
	summary := &domain.PayoutSummary{
		AffiliateID:    input.AffiliateID,
		Method:         method,
		PaymentDetails: input.PaymentDetails,
		Requested:      input.Amount,
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		approved := domain.CommissionApproved
		balance, err := uc.commissions.TotalByAffiliate(ctx, input.AffiliateID, &approved)
		if err != nil {
			return err
		}
		if input.Amount.GreaterThan(balance) {
			return fmt.Errorf("%w: requested %s, approved %s",
				domain.ErrInsufficientBalance, input.Amount.StringFixed(2), balance.StringFixed(2))
		}
		if !method.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidPaymentMethod, input.Method)
		}

		affiliate, err := uc.affiliateRepo.GetAffiliateByID(ctx, input.AffiliateID)
		if err != nil {
			return err
		}
		if !affiliate.Payment.Supports(method) {
			return fmt.Errorf("%w: no %s details on file", domain.ErrMissingPaymentInfo, method)
		}

		claimable, err := uc.commissionRepo.LockClaimableCommissions(ctx, input.AffiliateID)
		if err != nil {
			return err
		}
		picked, allocated := domain.AllocateFIFO(claimable, input.Amount)

		now := uc.now().UTC()
		ids := make([]string, len(picked))
		for i, c := range picked {
			ids[i] = c.ID
			c.PayoutRequestedAt = &now
		}
		if len(ids) > 0 {
			if err := uc.commissionRepo.MarkPayoutRequested(ctx, ids, now); err != nil {
				return err
			}
		}

		summary.Commissions = picked
		summary.Allocated = allocated
		summary.Shortfall = input.Amount.Sub(allocated)
		summary.Partial = summary.Shortfall.IsPositive()
		summary.RequestedAt = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("request payout: %w", err)
	}

	uc.metrics.RecordPayoutRequested(string(method), summary.Allocated, summary.Shortfall, summary.Partial)
	uc.events.Publish(ctx, payoutEvent(summary))
	if summary.Partial {
		slog.Warn("payout request partially allocated",
			"affiliate_id", summary.AffiliateID,
			"requested", summary.Requested.StringFixed(2),
			"allocated", summary.Allocated.StringFixed(2),
			"shortfall", summary.Shortfall.StringFixed(2),
		)
	} else {
		slog.Info("payout requested",
			"affiliate_id", summary.AffiliateID,
			"amount", summary.Allocated.StringFixed(2),
			"commissions", len(summary.Commissions),
		)
	}
	return summary, nil
}

func (uc *DefaultPayoutUsecase) ListPayoutRequests(ctx context.Context, affiliateID string) ([]domain.PayoutGroup, error) {
	commissions, err := uc.commissionRepo.ListPayoutRequested(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	return domain.GroupPayoutRequests(commissions), nil
}

func payoutEvent(s *domain.PayoutSummary) AffiliateEvent {
	ids := make([]string, len(s.Commissions))
	for i, c := range s.Commissions {
		ids[i] = c.ID
	}
	status := "allocated"
	if s.Partial {
		status = "partial"
	}
	return AffiliateEvent{
		Type:          EventPayoutRequested,
		AffiliateID:   s.AffiliateID,
		Status:        status,
		Amount:        s.Allocated.StringFixed(2),
		CommissionIDs: ids,
		OccurredAt:    s.RequestedAt,
	}
}
