package rates

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched rate set stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// Cache stores recently fetched rate sets keyed by base currency.
type Cache interface {
	Get(ctx context.Context, base string) (RateSet, bool, error)
	Put(ctx context.Context, base string, set RateSet) error
}

// CachedRateSet is one cached base entry with its freshness window.
type CachedRateSet struct {
	Rates     RateSet
	FetchedAt time.Time
	ExpiresAt time.Time
}

func (c CachedRateSet) fresh(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

// MemoryCache is a process-local Cache. Entries are independent per base so
// fetching one base never extends another's freshness.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]CachedRateSet
}

// NewMemoryCache builds a MemoryCache. A nil clock uses time.Now and a
// non-positive ttl uses DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{ttl: ttl, now: now, entries: make(map[string]CachedRateSet)}
}

// Get returns the cached set for base when it has not expired. A read at or
// after ExpiresAt is a miss.
func (c *MemoryCache) Get(_ context.Context, base string) (RateSet, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[base]
	c.mu.RUnlock()
	if !ok || !entry.fresh(c.now()) {
		return nil, false, nil
	}
	return entry.Rates, true, nil
}

// Put replaces the entry for base. Concurrent writers are last-writer-wins.
func (c *MemoryCache) Put(_ context.Context, base string, set RateSet) error {
	now := c.now()
	c.mu.Lock()
	c.entries[base] = CachedRateSet{Rates: set, FetchedAt: now, ExpiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Entry exposes the raw cached entry, expired or not.
func (c *MemoryCache) Entry(base string) (CachedRateSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[base]
	return entry, ok
}
