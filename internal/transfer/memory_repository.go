package transfer

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRepository builds an in-memory transfer store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Save(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, idOrTracking string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ID == idOrTracking || strings.EqualFold(rec.TrackingNumber, idOrTracking) {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *memoryRepository) List(_ context.Context, filter ListFilter) ([]Record, error) {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if filter.PartyID != "" && rec.Sender.ID != filter.PartyID && rec.Recipient.ID != filter.PartyID {
			continue
		}
		out = append(out, rec)
	}
	r.mu.RUnlock()

	// Newest first; equal timestamps keep reverse insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
