// Package memory is an in-process storage backend. It serialises transactions
// and restores a snapshot when one fails, which is enough for local runs and
// for exercising usecases in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
)

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	seq  int64
	now  func() time.Time

	affiliates  map[string]affiliateRow
	leads       map[string]leadRow
	commissions map[string]commissionRow
	rates       map[string]rateRow
}

// rows keep an insertion sequence so equal timestamps still order stably.
type affiliateRow struct {
	seq int64
	v   domain.Affiliate
}

type leadRow struct {
	seq int64
	v   domain.Lead
}

type commissionRow struct {
	seq int64
	v   domain.Commission
}

type rateRow struct {
	seq int64
	v   domain.RateSettings
}

func NewStore() *Store {
	return &Store{
		now:         time.Now,
		affiliates:  make(map[string]affiliateRow),
		leads:       make(map[string]leadRow),
		commissions: make(map[string]commissionRow),
		rates:       make(map[string]rateRow),
	}
}

// SetClock overrides the clock used for CreatedAt/UpdatedAt defaults.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// WithinTransaction implements domain.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	seq         int64
	affiliates  map[string]affiliateRow
	leads       map[string]leadRow
	commissions map[string]commissionRow
	rates       map[string]rateRow
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		seq:         s.seq,
		affiliates:  copyMap(s.affiliates),
		leads:       copyMap(s.leads),
		commissions: copyMap(s.commissions),
		rates:       copyMap(s.rates),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.affiliates = snap.affiliates
	s.leads = snap.leads
	s.commissions = snap.commissions
	s.rates = snap.rates
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
