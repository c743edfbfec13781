package memory

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
)

func (s *Store) CreateLead(ctx context.Context, lead *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[lead.ID]; ok {
		return fmt.Errorf("lead %s already exists", lead.ID)
	}
	for _, row := range s.leads {
		if row.v.Code == lead.Code {
			return fmt.Errorf("lead code %s already taken: %w", lead.Code, domain.ErrConflict)
		}
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now()
	}
	lead.UpdatedAt = lead.CreatedAt
	s.leads[lead.ID] = leadRow{seq: s.nextSeq(), v: *lead}
	return nil
}

func (s *Store) GetLeadByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.leads[leadID]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", leadID, domain.ErrNotFound)
	}
	l := row.v
	return &l, nil
}

func (s *Store) LeadCodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.leads {
		if row.v.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateLeadContact(ctx context.Context, lead *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.leads[lead.ID]
	if !ok {
		return fmt.Errorf("lead %s: %w", lead.ID, domain.ErrNotFound)
	}
	row.v.Contact = lead.Contact
	row.v.UpdatedAt = lead.UpdatedAt
	s.leads[lead.ID] = row
	return nil
}

func (s *Store) UpdateLeadStatus(ctx context.Context, lead *domain.Lead, expected domain.LeadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.leads[lead.ID]
	if !ok {
		return fmt.Errorf("lead %s: %w", lead.ID, domain.ErrNotFound)
	}
	if row.v.Status != expected {
		return fmt.Errorf("lead %s is %s, expected %s: %w", lead.ID, row.v.Status, expected, domain.ErrConflict)
	}
	row.v.Status = lead.Status
	row.v.AdminNotes = lead.AdminNotes
	row.v.ConvertedAt = lead.ConvertedAt
	row.v.UpdatedAt = lead.UpdatedAt
	s.leads[lead.ID] = row
	return nil
}

func (s *Store) CountLeads(ctx context.Context, filter domain.LeadFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, row := range s.leads {
		l := row.v
		if filter.SubmittedByID != "" && l.SubmittedByID != filter.SubmittedByID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.CreatedFrom != nil && l.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && !l.CreatedAt.Before(*filter.CreatedTo) {
			continue
		}
		n++
	}
	return n, nil
}

func (s *Store) CountLeadsByStatus(ctx context.Context, submitterID string) (map[domain.LeadStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.LeadStatus]int64, len(domain.LeadStatuses))
	for _, st := range domain.LeadStatuses {
		out[st] = 0
	}
	for _, row := range s.leads {
		if row.v.SubmittedByID == submitterID {
			out[row.v.Status]++
		}
	}
	return out, nil
}
