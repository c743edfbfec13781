package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
)

func (s *Store) GetActiveRateSettings(ctx context.Context) (*domain.RateSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *rateRow
	for _, row := range s.rates {
		if !row.v.IsActive {
			continue
		}
		r := row
		if best == nil || r.v.EffectiveFrom.After(best.v.EffectiveFrom) ||
			(r.v.EffectiveFrom.Equal(best.v.EffectiveFrom) && r.seq > best.seq) {
			best = &r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("active rate settings: %w", domain.ErrNotFound)
	}
	out := best.v
	return &out, nil
}

func (s *Store) CreateRateSettings(ctx context.Context, settings *domain.RateSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.IsActive {
		for _, row := range s.rates {
			if row.v.IsActive {
				return fmt.Errorf("rate settings %s is still active: %w", row.v.ID, domain.ErrConflict)
			}
		}
	}
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = s.now()
	}
	s.rates[settings.ID] = rateRow{seq: s.nextSeq(), v: *settings}
	return nil
}

func (s *Store) DeactivateAllRateSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, row := range s.rates {
		row.v.IsActive = false
		s.rates[id] = row
	}
	return nil
}

func (s *Store) ListRateSettings(ctx context.Context) ([]*domain.RateSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]rateRow, 0, len(s.rates))
	for _, row := range s.rates {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].v.EffectiveFrom.Equal(rows[j].v.EffectiveFrom) {
			return rows[i].v.EffectiveFrom.After(rows[j].v.EffectiveFrom)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]*domain.RateSettings, len(rows))
	for i := range rows {
		r := rows[i].v
		out[i] = &r
	}
	return out, nil
}
