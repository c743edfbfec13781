package setup

import (
	"github.com/LavaJover/shvark-affiliate-service/internal/usecase"
)

type UseCases struct {
	RateSettingsUsecase usecase.RateSettingsUsecase
	CommissionUsecase   usecase.CommissionUsecase
	LeadUsecase         usecase.LeadUsecase
	PayoutUsecase       usecase.PayoutUsecase
	ReferralUsecase     usecase.ReferralUsecase
	AffiliateUsecase    usecase.AffiliateUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	repos := deps.Repositories
	events := usecase.NewEventPublisher(deps.Publisher, deps.Config.KafkaService.Topic)

	rateSettingsUsecase := usecase.NewDefaultRateSettingsUsecase(
		repos.RateSettingsRepo,
		repos.Transactor,
		repos.RateCache,
		deps.Policy,
		events,
		deps.Metrics,
	)
	commissionUsecase := usecase.NewDefaultCommissionUsecase(
		repos.CommissionRepo,
		repos.AffiliateRepo,
		rateSettingsUsecase,
		repos.Transactor,
		events,
		deps.Metrics,
	)
	leadUsecase := usecase.NewDefaultLeadUsecase(
		repos.LeadRepo,
		repos.AffiliateRepo,
		commissionUsecase,
		repos.Transactor,
		deps.Policy,
		events,
		deps.Metrics,
	)
	payoutUsecase := usecase.NewDefaultPayoutUsecase(
		repos.CommissionRepo,
		repos.AffiliateRepo,
		commissionUsecase,
		repos.Transactor,
		deps.Policy,
		events,
		deps.Metrics,
	)
	referralUsecase := usecase.NewDefaultReferralUsecase(
		repos.AffiliateRepo,
		repos.LeadRepo,
		repos.CommissionRepo,
		commissionUsecase,
		deps.Policy,
	)
	affiliateUsecase := usecase.NewDefaultAffiliateUsecase(repos.AffiliateRepo, repos.Transactor)

	return &UseCases{
		RateSettingsUsecase: rateSettingsUsecase,
		CommissionUsecase:   commissionUsecase,
		LeadUsecase:         leadUsecase,
		PayoutUsecase:       payoutUsecase,
		ReferralUsecase:     referralUsecase,
		AffiliateUsecase:    affiliateUsecase,
	}
}
