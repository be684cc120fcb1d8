// Package memory is a process-local quote store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"handwerk-hero/go_backend/internal/domain/quote"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]quote.Record
	now     func() time.Time
}

func New() *Store {
	return &Store{
		records: make(map[string]quote.Record),
		now:     time.Now,
	}
}

func (s *Store) ListSummaries(ctx context.Context) ([]quote.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]quote.Summary, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, quote.Summary{
			ID:            r.ID,
			CustomerLabel: r.CustomerLabel,
			NetTotal:      r.NetTotal,
			CreatedAt:     r.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Fetch(ctx context.Context, id string) (*quote.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, quote.ErrNotFound
	}
	r.Items = append([]quote.StoredItem(nil), r.Items...)
	return &r, nil
}

func (s *Store) Insert(ctx context.Context, d quote.Draft) (*quote.Record, error) {
	r := quote.Record{
		ID:            uuid.NewString(),
		CustomerLabel: d.CustomerLabel,
		Title:         d.Title,
		Items:         append([]quote.StoredItem(nil), d.Items...),
		NetTotal:      d.NetTotal,
		CreatedAt:     s.now().UTC(),
	}

	s.mu.Lock()
	s.records[r.ID] = r
	s.mu.Unlock()

	out := r
	out.Items = append([]quote.StoredItem(nil), r.Items...)
	return &out, nil
}
