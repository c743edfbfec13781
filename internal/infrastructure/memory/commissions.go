package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateCommission(ctx context.Context, commission *domain.Commission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.commissions[commission.ID]; ok {
		return fmt.Errorf("commission %s already exists", commission.ID)
	}
	if commission.CreatedAt.IsZero() {
		commission.CreatedAt = s.now()
	}
	s.commissions[commission.ID] = commissionRow{seq: s.nextSeq(), v: *commission}
	return nil
}

func (s *Store) GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.commissions[commissionID]
	if !ok {
		return nil, fmt.Errorf("commission %s: %w", commissionID, domain.ErrNotFound)
	}
	c := row.v
	return &c, nil
}

func (s *Store) UpdateCommissionStatus(ctx context.Context, commission *domain.Commission, expected domain.CommissionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.commissions[commission.ID]
	if !ok {
		return fmt.Errorf("commission %s: %w", commission.ID, domain.ErrNotFound)
	}
	if row.v.Status != expected {
		return fmt.Errorf("commission %s is %s, expected %s: %w", commission.ID, row.v.Status, expected, domain.ErrConflict)
	}
	row.v.Status = commission.Status
	row.v.ApprovedAt = commission.ApprovedAt
	row.v.PaidAt = commission.PaidAt
	s.commissions[commission.ID] = row
	return nil
}

func (s *Store) matching(filter domain.CommissionFilter) []commissionRow {
	var rows []commissionRow
	for _, row := range s.commissions {
		c := row.v
		if filter.AffiliateID != "" && c.AffiliateID != filter.AffiliateID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && c.Type != *filter.Type {
			continue
		}
		if filter.PaidFrom != nil && (c.PaidAt == nil || c.PaidAt.Before(*filter.PaidFrom)) {
			continue
		}
		if filter.PaidTo != nil && (c.PaidAt == nil || !c.PaidAt.Before(*filter.PaidTo)) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Store) SumCommissions(ctx context.Context, filter domain.CommissionFilter) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, row := range s.matching(filter) {
		total = total.Add(row.v.Amount)
	}
	return total, nil
}

func (s *Store) CountCommissions(ctx context.Context, filter domain.CommissionFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matching(filter))), nil
}

func (s *Store) ListCommissions(ctx context.Context, filter domain.CommissionFilter) ([]*domain.Commission, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.matching(filter)
	sortOldestFirst(rows)
	// newest first
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	total := int64(len(rows))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start > len(rows) {
			start = len(rows)
		}
		end := start + filter.Limit
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[start:end]
	}
	return toCommissions(rows), total, nil
}

func (s *Store) LockClaimableCommissions(ctx context.Context, affiliateID string) ([]*domain.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	approved := domain.CommissionApproved
	var rows []commissionRow
	for _, row := range s.matching(domain.CommissionFilter{AffiliateID: affiliateID, Status: &approved}) {
		if row.v.PayoutRequestedAt == nil {
			rows = append(rows, row)
		}
	}
	sortOldestFirst(rows)
	return toCommissions(rows), nil
}

func (s *Store) MarkPayoutRequested(ctx context.Context, commissionIDs []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range commissionIDs {
		row, ok := s.commissions[id]
		if !ok {
			return fmt.Errorf("commission %s: %w", id, domain.ErrNotFound)
		}
		if row.v.PayoutRequestedAt != nil {
			return fmt.Errorf("commission %s already claimed: %w", id, domain.ErrConflict)
		}
		stamp := at
		row.v.PayoutRequestedAt = &stamp
		s.commissions[id] = row
	}
	return nil
}

func (s *Store) ListPayoutRequested(ctx context.Context, affiliateID string) ([]*domain.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []commissionRow
	for _, row := range s.commissions {
		if row.v.AffiliateID == affiliateID && row.v.PayoutRequestedAt != nil {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].v.PayoutRequestedAt, rows[j].v.PayoutRequestedAt
		if !a.Equal(*b) {
			return a.After(*b)
		}
		return rows[i].seq > rows[j].seq
	})
	return toCommissions(rows), nil
}

func sortOldestFirst(rows []commissionRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].v.CreatedAt.Equal(rows[j].v.CreatedAt) {
			return rows[i].v.CreatedAt.Before(rows[j].v.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})
}

func toCommissions(rows []commissionRow) []*domain.Commission {
	out := make([]*domain.Commission, len(rows))
	for i := range rows {
		c := rows[i].v
		out[i] = &c
	}
	return out
}
