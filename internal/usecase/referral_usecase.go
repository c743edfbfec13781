package usecase

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ReferralUsecase interface {
	// BuildTree returns rootID and its referrals down to maxDepth levels below
	// the root. maxDepth <= 0 uses the configured depth.
	BuildTree(ctx context.Context, rootID string, maxDepth int) (*domain.TreeNode, error)
	Stats(ctx context.Context, affiliateID string) (*domain.ReferralStats, error)
}

type DefaultReferralUsecase struct {
	affiliateRepo  domain.AffiliateRepository
	leadRepo       domain.LeadRepository
	commissionRepo domain.CommissionRepository
	commissions    CommissionUsecase
	policy         domain.CommissionPolicy
}

func NewDefaultReferralUsecase(
	affiliateRepo domain.AffiliateRepository,
	leadRepo domain.LeadRepository,
	commissionRepo domain.CommissionRepository,
	commissions CommissionUsecase,
	policy domain.CommissionPolicy,
) *DefaultReferralUsecase {
	return &DefaultReferralUsecase{
		affiliateRepo:  affiliateRepo,
		leadRepo:       leadRepo,
		commissionRepo: commissionRepo,
		commissions:    commissions,
		policy:         policy,
	}
}

func (uc *DefaultReferralUsecase) BuildTree(ctx context.Context, rootID string, maxDepth int) (*domain.TreeNode, error) {
	if maxDepth <= 0 {
		maxDepth = uc.policy.ReferralTreeDepth
	}

	root, err := uc.affiliateRepo.GetAffiliateByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	w := treeWalk{uc: uc, maxDepth: maxDepth, visited: map[string]bool{root.ID: true}}
	return w.node(ctx, root, 0)
}

type treeWalk struct {
	uc       *DefaultReferralUsecase
	maxDepth int
	visited  map[string]bool
}

func (w *treeWalk) node(ctx context.Context, a *domain.Affiliate, level int) (*domain.TreeNode, error) {
	leads, err := w.uc.leadRepo.CountLeads(ctx, domain.LeadFilter{SubmittedByID: a.ID})
	if err != nil {
		return nil, err
	}
	paid := domain.CommissionPaid
	earned, err := w.uc.commissions.TotalByAffiliate(ctx, a.ID, &paid)
	if err != nil {
		return nil, err
	}

	n := &domain.TreeNode{
		AffiliateID:         a.ID,
		Name:                a.FullName(),
		Email:               a.Email,
		ReferralCode:        a.ReferralCode,
		Level:               level,
		LeadCount:           leads,
		TotalPaidCommission: earned,
		JoinedAt:            a.CreatedAt,
		Children:            []*domain.TreeNode{},
	}
	if level >= w.maxDepth {
		return n, nil
	}

	referrals, err := w.uc.affiliateRepo.ListReferrals(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range referrals {
		if w.visited[r.ID] {
			return nil, fmt.Errorf("%w: affiliate %s reached twice", domain.ErrReferralCycle, r.ID)
		}
		w.visited[r.ID] = true

		child, err := w.node(ctx, r, level+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (uc *DefaultReferralUsecase) Stats(ctx context.Context, affiliateID string) (*domain.ReferralStats, error) {
	if _, err := uc.affiliateRepo.GetAffiliateByID(ctx, affiliateID); err != nil {
		return nil, err
	}
	direct, err := uc.affiliateRepo.ListReferrals(ctx, affiliateID)
	if err != nil {
		return nil, err
	}

	stats := &domain.ReferralStats{
		DirectCount:             len(direct),
		Level1Count:             len(direct),
		TotalReferralCommission: decimal.Zero,
	}
	for _, r := range direct {
		leads, err := uc.leadRepo.CountLeads(ctx, domain.LeadFilter{SubmittedByID: r.ID})
		if err != nil {
			return nil, err
		}
		if leads > 0 {
			stats.ActiveCount++
		}

		second, err := uc.affiliateRepo.ListReferrals(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		stats.Level2Count += len(second)
	}

	paid, referral := domain.CommissionPaid, domain.CommissionReferral
	stats.TotalReferralCommission, err = uc.commissionRepo.SumCommissions(ctx, domain.CommissionFilter{
		AffiliateID: affiliateID,
		Status:      &paid,
		Type:        &referral,
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
