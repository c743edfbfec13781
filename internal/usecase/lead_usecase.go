package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/metrics"
	leaddto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/lead"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeadUsecase interface {
	Submit(ctx context.Context, input *leaddto.SubmitLeadInput) (*domain.Lead, error)
	// Transition moves a lead to any status except out of sold. Moving to sold
	// creates the commissions in the same transaction.
	Transition(ctx context.Context, input *leaddto.TransitionLeadInput) (*leaddto.TransitionLeadOutput, error)
	Convert(ctx context.Context, input *leaddto.ConvertLeadInput) (*leaddto.TransitionLeadOutput, error)
	Update(ctx context.Context, input *leaddto.UpdateLeadInput) (*domain.Lead, error)
	// Get hides leads of other submitters. An empty submitterID skips the check.
	Get(ctx context.Context, leadID, submitterID string) (*domain.Lead, error)
	Stats(ctx context.Context, submitterID string, now time.Time) (*domain.LeadStats, error)
}

type DefaultLeadUsecase struct {
	leadRepo      domain.LeadRepository
	affiliateRepo domain.AffiliateRepository
	commissions   CommissionUsecase
	tx            domain.Transactor
	policy        domain.CommissionPolicy
	events        *EventPublisher
	metrics       *metrics.AffiliateMetrics
	now           func() time.Time
}

func NewDefaultLeadUsecase(
	leadRepo domain.LeadRepository,
	affiliateRepo domain.AffiliateRepository,
	commissions CommissionUsecase,
	tx domain.Transactor,
	policy domain.CommissionPolicy,
	events *EventPublisher,
	affiliateMetrics *metrics.AffiliateMetrics,
) *DefaultLeadUsecase {
	return &DefaultLeadUsecase{
		leadRepo:      leadRepo,
		affiliateRepo: affiliateRepo,
		commissions:   commissions,
		tx:            tx,
		policy:        policy,
		events:        events,
		metrics:       affiliateMetrics,
		now:           time.Now,
	}
}

func (uc *DefaultLeadUsecase) Submit(ctx context.Context, input *leaddto.SubmitLeadInput) (_ *domain.Lead, err error) {
	defer uc.metrics.ObserveOperation("submit_lead", time.Now(), &err)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	nextCode, err := leadCodeGenerator(uc.policy.LeadCodePrefix, uc.policy.LeadCodeDigits, now)
	if err != nil {
		return nil, fmt.Errorf("lead code generator: %w", err)
	}

	lead := &domain.Lead{
		ID: uuid.New().String(),
		Contact: domain.LeadContact{
			FullName:      input.FullName,
			Email:         input.Email,
			Phone:         input.Phone,
			LocationCity:  input.LocationCity,
			LocationState: input.LocationState,
			Industry:      input.Industry,
			Notes:         input.Notes,
		},
		SubmittedByID:       input.SubmittedByID,
		SecondaryReferrerID: input.SecondaryReferrerID,
		Status:              domain.LeadSubmitted,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.affiliateRepo.GetAffiliateByID(ctx, input.SubmittedByID); err != nil {
			return fmt.Errorf("submitter: %w", err)
		}
		if input.SecondaryReferrerID != nil {
			if _, err := uc.affiliateRepo.GetAffiliateByID(ctx, *input.SecondaryReferrerID); err != nil {
				return fmt.Errorf("secondary referrer: %w", err)
			}
		}
		code, err := uniqueCode(ctx, nextCode, uc.leadRepo.LeadCodeExists)
		if err != nil {
			return err
		}
		lead.Code = code
		return uc.leadRepo.CreateLead(ctx, lead)
	})
	if err != nil {
		return nil, fmt.Errorf("submit lead: %w", err)
	}

	uc.metrics.RecordLeadSubmitted()
	uc.events.Publish(ctx, AffiliateEvent{
		Type:        EventLeadSubmitted,
		AffiliateID: lead.SubmittedByID,
		LeadID:      lead.ID,
		LeadCode:    lead.Code,
		Status:      string(lead.Status),
		OccurredAt:  now,
	})
	slog.Info("lead submitted", "lead_id", lead.ID, "code", lead.Code, "affiliate_id", lead.SubmittedByID)
	return lead, nil
}

func (uc *DefaultLeadUsecase) Transition(ctx context.Context, input *leaddto.TransitionLeadInput) (*leaddto.TransitionLeadOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	target := domain.LeadStatus(input.Status)
	if !target.Valid() {
		return nil, fmt.Errorf("%w: lead status %q", domain.ErrInvalidStatus, input.Status)
	}

	dealValue := uc.policy.DefaultDealValue
	if input.DealValue != nil {
		dealValue = *input.DealValue
	}
	return uc.transition(ctx, input.LeadID, target, input.Note, dealValue)
}

func (uc *DefaultLeadUsecase) Convert(ctx context.Context, input *leaddto.ConvertLeadInput) (*leaddto.TransitionLeadOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return uc.transition(ctx, input.LeadID, domain.LeadSold, input.Note, input.DealValue)
}

func (uc *DefaultLeadUsecase) transition(
	ctx context.Context,
	leadID string,
	target domain.LeadStatus,
	note *string,
	dealValue decimal.Decimal,
) (_ *leaddto.TransitionLeadOutput, err error) {
	defer uc.metrics.ObserveOperation("transition_lead", time.Now(), &err)

	if target == domain.LeadSold && !dealValue.IsPositive() {
		return nil, fmt.Errorf("%w: deal value must be positive", domain.ErrInvalidAmount)
	}

	var (
		out  leaddto.TransitionLeadOutput
		prev domain.LeadStatus
	)
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		lead, err := uc.leadRepo.GetLeadByID(ctx, leadID)
		if err != nil {
			return err
		}
		prev = lead.Status
		if err := checkLeadTransition(lead, target); err != nil {
			return err
		}

		now := uc.now().UTC()
		lead.Status = target
		lead.UpdatedAt = now
		if note != nil {
			lead.AdminNotes = note
		}
		if target == domain.LeadSold {
			lead.ConvertedAt = &now
		}

		if err := uc.leadRepo.UpdateLeadStatus(ctx, lead, prev); err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				return err
			}
			// lost the race: report against the winner's status
			current, getErr := uc.leadRepo.GetLeadByID(ctx, leadID)
			if getErr != nil {
				return getErr
			}
			if cerr := checkLeadTransition(current, target); cerr != nil {
				return cerr
			}
			return err
		}

		if target == domain.LeadSold {
			commissions, err := uc.commissions.OnLeadConverted(ctx, lead, dealValue)
			if err != nil {
				return err
			}
			out.Commissions = commissions
		}
		out.Lead = lead
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transition lead %s to %s: %w", leadID, target, err)
	}

	uc.afterTransition(ctx, prev, &out, dealValue)
	return &out, nil
}

func checkLeadTransition(lead *domain.Lead, target domain.LeadStatus) error {
	if lead.Status != domain.LeadSold {
		return nil
	}
	if target == domain.LeadSold {
		return fmt.Errorf("%w: lead %s", domain.ErrAlreadyConverted, lead.Code)
	}
	return fmt.Errorf("%w: lead %s is sold and has commissions", domain.ErrInvalidTransition, lead.Code)
}

func (uc *DefaultLeadUsecase) afterTransition(ctx context.Context, prev domain.LeadStatus, out *leaddto.TransitionLeadOutput, dealValue decimal.Decimal) {
	lead := out.Lead
	uc.metrics.RecordLeadTransition(string(prev), string(lead.Status))

	eventType := EventLeadStatusChanged
	if lead.Status == domain.LeadSold {
		eventType = EventLeadConverted
	}
	events := []AffiliateEvent{{
		Type:        eventType,
		AffiliateID: lead.SubmittedByID,
		LeadID:      lead.ID,
		LeadCode:    lead.Code,
		Status:      string(lead.Status),
		OccurredAt:  lead.UpdatedAt,
	}}
	for _, c := range out.Commissions {
		uc.metrics.RecordCommissionCreated(string(c.Type), c.Amount)
		events = append(events, commissionEvent(EventCommissionCreated, c, lead.UpdatedAt))
	}
	uc.events.Publish(ctx, events...)

	if lead.Status == domain.LeadSold {
		slog.Info("lead converted",
			"lead_id", lead.ID,
			"code", lead.Code,
			"deal_value", dealValue.StringFixed(2),
			"commissions", len(out.Commissions),
		)
	}
}

func (uc *DefaultLeadUsecase) Update(ctx context.Context, input *leaddto.UpdateLeadInput) (*domain.Lead, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var lead *domain.Lead
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := uc.ownedLead(ctx, input.LeadID, input.SubmitterID)
		if err != nil {
			return err
		}
		if l.Status.Terminal() {
			return fmt.Errorf("%w: lead %s is %s", domain.ErrLeadLocked, l.Code, l.Status)
		}

		c := &l.Contact
		if input.FullName != nil {
			c.FullName = *input.FullName
		}
		setIfPresent(&c.Email, input.Email)
		setIfPresent(&c.Phone, input.Phone)
		setIfPresent(&c.LocationCity, input.LocationCity)
		setIfPresent(&c.LocationState, input.LocationState)
		setIfPresent(&c.Industry, input.Industry)
		setIfPresent(&c.Notes, input.Notes)
		l.UpdatedAt = uc.now().UTC()

		if err := uc.leadRepo.UpdateLeadContact(ctx, l); err != nil {
			return err
		}
		lead = l
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (uc *DefaultLeadUsecase) Get(ctx context.Context, leadID, submitterID string) (*domain.Lead, error) {
	if submitterID == "" {
		return uc.leadRepo.GetLeadByID(ctx, leadID)
	}
	return uc.ownedLead(ctx, leadID, submitterID)
}

func (uc *DefaultLeadUsecase) Stats(ctx context.Context, submitterID string, now time.Time) (*domain.LeadStats, error) {
	byStatus, err := uc.leadRepo.CountLeadsByStatus(ctx, submitterID)
	if err != nil {
		return nil, err
	}

	stats := &domain.LeadStats{ByStatus: byStatus}
	for _, n := range byStatus {
		stats.Total += n
	}

	now = now.UTC()
	from, to := monthBounds(now.Year(), now.Month())
	stats.CreatedThisMonth, err = uc.leadRepo.CountLeads(ctx, domain.LeadFilter{
		SubmittedByID: submitterID,
		CreatedFrom:   &from,
		CreatedTo:     &to,
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (uc *DefaultLeadUsecase) ownedLead(ctx context.Context, leadID, submitterID string) (*domain.Lead, error) {
	lead, err := uc.leadRepo.GetLeadByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.SubmittedByID != submitterID {
		return nil, fmt.Errorf("lead %s: %w", leadID, domain.ErrNotFound)
	}
	return lead, nil
}

func setIfPresent(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}
