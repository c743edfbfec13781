package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-affiliate-service/internal/usecase"
	affiliatedto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/affiliate"
	commissiondto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/commission"
	leaddto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/lead"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const eventsTopic = "affiliate-events"

var emailSeq atomic.Int64

type fixture struct {
	store       *memory.Store
	publisher   *memory.Publisher
	policy      domain.CommissionPolicy
	rates       *usecase.DefaultRateSettingsUsecase
	commissions *usecase.DefaultCommissionUsecase
	leads       *usecase.DefaultLeadUsecase
	payouts     *usecase.DefaultPayoutUsecase
	referrals   *usecase.DefaultReferralUsecase
	affiliates  *usecase.DefaultAffiliateUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, domain.DefaultCommissionPolicy(), nil, nil)
}

// newFixtureWith lets a test swap the commission repository or the cache.
func newFixtureWith(t *testing.T, policy domain.CommissionPolicy, commissionRepo domain.CommissionRepository, cache domain.RateSettingsCache) *fixture {
	t.Helper()

	store := memory.NewStore()
	pub := memory.NewPublisher()
	events := usecase.NewEventPublisher(pub, eventsTopic)
	if commissionRepo == nil {
		commissionRepo = store
	}

	f := &fixture{store: store, publisher: pub, policy: policy}
	f.rates = usecase.NewDefaultRateSettingsUsecase(store, store, cache, policy, events, nil)
	f.commissions = usecase.NewDefaultCommissionUsecase(commissionRepo, store, f.rates, store, events, nil)
	f.leads = usecase.NewDefaultLeadUsecase(store, store, f.commissions, store, policy, events, nil)
	f.payouts = usecase.NewDefaultPayoutUsecase(commissionRepo, store, f.commissions, store, policy, events, nil)
	f.referrals = usecase.NewDefaultReferralUsecase(store, store, commissionRepo, f.commissions, policy)
	f.affiliates = usecase.NewDefaultAffiliateUsecase(store, store)
	return f
}

// affiliate registers a new affiliate, referred by referrer when not nil.
func (f *fixture) affiliate(t *testing.T, referrer *domain.Affiliate) *domain.Affiliate {
	t.Helper()

	input := &affiliatedto.RegisterAffiliateInput{
		Email:     fmt.Sprintf("affiliate%d@example.com", emailSeq.Add(1)),
		FirstName: "Test",
		LastName:  "Affiliate",
	}
	if referrer != nil {
		input.ReferrerCode = &referrer.ReferralCode
	}
	a, err := f.affiliates.Register(context.Background(), input)
	require.NoError(t, err)
	return a
}

func (f *fixture) lead(t *testing.T, submitter *domain.Affiliate) *domain.Lead {
	t.Helper()

	l, err := f.leads.Submit(context.Background(), &leaddto.SubmitLeadInput{
		SubmittedByID: submitter.ID,
		FullName:      "Jane Prospect",
	})
	require.NoError(t, err)
	return l
}

func (f *fixture) convert(t *testing.T, lead *domain.Lead, dealValue string) []*domain.Commission {
	t.Helper()

	out, err := f.leads.Convert(context.Background(), &leaddto.ConvertLeadInput{
		LeadID:    lead.ID,
		DealValue: decimal.RequireFromString(dealValue),
	})
	require.NoError(t, err)
	return out.Commissions
}

// approved creates an approved commission through the manual path.
func (f *fixture) approved(t *testing.T, affiliate *domain.Affiliate, amount string) *domain.Commission {
	t.Helper()

	c, err := f.commissions.CreateManual(context.Background(), &commissiondto.CreateManualCommissionInput{
		AffiliateID: affiliate.ID,
		Amount:      decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) countCommissions(t *testing.T) int64 {
	t.Helper()

	n, err := f.store.CountCommissions(context.Background(), domain.CommissionFilter{})
	require.NoError(t, err)
	return n
}

func (f *fixture) eventTypes(t *testing.T) []string {
	t.Helper()

	var types []string
	for _, m := range f.publisher.Messages() {
		require.Equal(t, eventsTopic, m.Topic)
		var e usecase.AffiliateEvent
		require.NoError(t, json.Unmarshal(m.Value, &e))
		types = append(types, e.Type)
	}
	return types
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
