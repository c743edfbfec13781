package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
)

func (s *Store) CreateAffiliate(ctx context.Context, affiliate *domain.Affiliate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.affiliates[affiliate.ID]; ok {
		return fmt.Errorf("affiliate %s already exists", affiliate.ID)
	}
	for _, row := range s.affiliates {
		if row.v.ReferralCode == affiliate.ReferralCode {
			return fmt.Errorf("referral code %s already taken: %w", affiliate.ReferralCode, domain.ErrConflict)
		}
		if row.v.Email == affiliate.Email {
			return fmt.Errorf("email %s already registered: %w", affiliate.Email, domain.ErrConflict)
		}
	}
	if affiliate.CreatedAt.IsZero() {
		affiliate.CreatedAt = s.now()
	}
	affiliate.UpdatedAt = affiliate.CreatedAt
	s.affiliates[affiliate.ID] = affiliateRow{seq: s.nextSeq(), v: *affiliate}
	return nil
}

func (s *Store) GetAffiliateByID(ctx context.Context, affiliateID string) (*domain.Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.affiliates[affiliateID]
	if !ok {
		return nil, fmt.Errorf("affiliate %s: %w", affiliateID, domain.ErrNotFound)
	}
	a := row.v
	return &a, nil
}

func (s *Store) GetAffiliateByReferralCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.affiliates {
		if row.v.ReferralCode == code {
			a := row.v
			return &a, nil
		}
	}
	return nil, fmt.Errorf("referral code %s: %w", code, domain.ErrNotFound)
}

func (s *Store) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.GetAffiliateByReferralCode(ctx, code)
	return err == nil, nil
}

func (s *Store) UpdatePaymentProfile(ctx context.Context, affiliateID string, profile domain.PaymentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.affiliates[affiliateID]
	if !ok {
		return fmt.Errorf("affiliate %s: %w", affiliateID, domain.ErrNotFound)
	}
	row.v.Payment = profile
	row.v.UpdatedAt = s.now()
	s.affiliates[affiliateID] = row
	return nil
}

// SetReferredBy rewires a referral edge without any checks. It exists so
// tests can build broken graphs; the service never calls it.
func (s *Store) SetReferredBy(affiliateID string, referrerID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.affiliates[affiliateID]
	if !ok {
		return fmt.Errorf("affiliate %s: %w", affiliateID, domain.ErrNotFound)
	}
	row.v.ReferredByID = referrerID
	s.affiliates[affiliateID] = row
	return nil
}

func (s *Store) ListReferrals(ctx context.Context, affiliateID string) ([]*domain.Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []affiliateRow
	for _, row := range s.affiliates {
		if row.v.ReferredByID != nil && *row.v.ReferredByID == affiliateID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].v.CreatedAt.Equal(rows[j].v.CreatedAt) {
			return rows[i].v.CreatedAt.Before(rows[j].v.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]*domain.Affiliate, len(rows))
	for i := range rows {
		a := rows[i].v
		out[i] = &a
	}
	return out, nil
}
