package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type RateSettingsUsecase interface {
	GetActive(ctx context.Context) (*domain.RateSettings, error)
	// LoadActive reads the active version from storage, skipping the cache.
	// Inside a transaction it reads through that transaction.
	LoadActive(ctx context.Context) (*domain.RateSettings, error)
	SetNew(ctx context.Context, primaryPercent, referringPercent decimal.Decimal) (*domain.RateSettings, error)
	History(ctx context.Context) ([]*domain.RateSettings, error)
}

type DefaultRateSettingsUsecase struct {
	repo    domain.RateSettingsRepository
	tx      domain.Transactor
	cache   domain.RateSettingsCache
	policy  domain.CommissionPolicy
	events  *EventPublisher
	metrics *metrics.AffiliateMetrics
	now     func() time.Time
}

// NewDefaultRateSettingsUsecase accepts a nil cache.
func NewDefaultRateSettingsUsecase(
	repo domain.RateSettingsRepository,
	tx domain.Transactor,
	cache domain.RateSettingsCache,
	policy domain.CommissionPolicy,
	events *EventPublisher,
	affiliateMetrics *metrics.AffiliateMetrics,
) *DefaultRateSettingsUsecase {
	return &DefaultRateSettingsUsecase{
		repo:    repo,
		tx:      tx,
		cache:   cache,
		policy:  policy,
		events:  events,
		metrics: affiliateMetrics,
		now:     time.Now,
	}
}

// GetActive returns the active settings, serving the cache when it holds a
// copy. Use LoadActive where the value must match storage.
func (uc *DefaultRateSettingsUsecase) GetActive(ctx context.Context) (*domain.RateSettings, error) {
	if cached := uc.fromCache(ctx); cached != nil {
		return cached, nil
	}
	active, err := uc.LoadActive(ctx)
	if err != nil {
		return nil, err
	}
	uc.toCache(ctx, active)
	return active, nil
}

// LoadActive creates a default version when the store holds none.
func (uc *DefaultRateSettingsUsecase) LoadActive(ctx context.Context) (*domain.RateSettings, error) {
	var (
		active  *domain.RateSettings
		created bool
	)
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		settings, err := uc.repo.GetActiveRateSettings(ctx)
		if err == nil {
			active = settings
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		settings = uc.newVersion(uc.policy.DefaultPrimaryPercent, uc.policy.DefaultReferringPercent)
		if err := uc.repo.CreateRateSettings(ctx, settings); err != nil {
			return err
		}
		active, created = settings, true
		return nil
	})
	// another caller created the default first
	if errors.Is(err, domain.ErrConflict) {
		created = false
		active, err = uc.repo.GetActiveRateSettings(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("get active rate settings: %w", err)
	}

	if created {
		slog.Info("created default rate settings",
			"id", active.ID,
			"primary_percentage", active.PrimaryPercentage.String(),
			"referring_percentage", active.ReferringPercentage.String(),
		)
	}
	return active, nil
}

// SetNew supersedes every existing version with a new active one.
func (uc *DefaultRateSettingsUsecase) SetNew(ctx context.Context, primaryPercent, referringPercent decimal.Decimal) (_ *domain.RateSettings, err error) {
	defer uc.metrics.ObserveOperation("set_rate_settings", time.Now(), &err)

	if err := validatePercent("primary_percentage", primaryPercent); err != nil {
		return nil, err
	}
	if err := validatePercent("referring_percentage", referringPercent); err != nil {
		return nil, err
	}

	settings := uc.newVersion(primaryPercent, referringPercent)
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.DeactivateAllRateSettings(ctx); err != nil {
			return err
		}
		return uc.repo.CreateRateSettings(ctx, settings)
	})
	if err != nil {
		return nil, fmt.Errorf("set rate settings: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			slog.Error("failed to invalidate rate settings cache", "error", err.Error())
		}
	}
	uc.metrics.RecordRateSettingsChanged()
	uc.events.Publish(ctx, AffiliateEvent{
		Type:       EventRateSettingsChanged,
		Status:     "active",
		Amount:     settings.PrimaryPercentage.String() + "/" + settings.ReferringPercentage.String(),
		OccurredAt: settings.EffectiveFrom,
	})
	slog.Info("rate settings changed",
		"id", settings.ID,
		"primary_percentage", settings.PrimaryPercentage.String(),
		"referring_percentage", settings.ReferringPercentage.String(),
	)
	return settings, nil
}

func (uc *DefaultRateSettingsUsecase) History(ctx context.Context) ([]*domain.RateSettings, error) {
	return uc.repo.ListRateSettings(ctx)
}

func (uc *DefaultRateSettingsUsecase) newVersion(primaryPercent, referringPercent decimal.Decimal) *domain.RateSettings {
	now := uc.now().UTC()
	return &domain.RateSettings{
		ID:                  uuid.New().String(),
		PrimaryPercentage:   primaryPercent,
		ReferringPercentage: referringPercent,
		IsActive:            true,
		EffectiveFrom:       now,
		CreatedAt:           now,
	}
}

func (uc *DefaultRateSettingsUsecase) fromCache(ctx context.Context) *domain.RateSettings {
	if uc.cache == nil {
		return nil
	}
	settings, err := uc.cache.Get(ctx)
	switch {
	case err != nil:
		uc.metrics.RecordRateCacheLookup("error")
		slog.Warn("rate settings cache read failed", "error", err.Error())
		return nil
	case settings == nil:
		uc.metrics.RecordRateCacheLookup("miss")
		return nil
	}
	uc.metrics.RecordRateCacheLookup("hit")
	return settings
}

func (uc *DefaultRateSettingsUsecase) toCache(ctx context.Context, settings *domain.RateSettings) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, settings); err != nil {
		slog.Warn("rate settings cache write failed", "error", err.Error())
	}
}

func validatePercent(field string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s must be between 0 and 100", domain.ErrValidation, field)
	}
	return nil
}
