package receiver

import (
	"sync"
	"time"
)

// Deduplicator remembers event keys for a while so PayU redeliveries of an
// already dispatched notification are acknowledged without dispatching again.
type Deduplicator struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewDeduplicator(ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		ttl:  ttl,
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
}

// Claim reports whether key was not seen within the TTL and marks it seen.
// A zero TTL disables deduplication.
func (d *Deduplicator) Claim(key string) bool {
	if d == nil || d.ttl <= 0 || key == "" {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.evict(now)

	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = now.Add(d.ttl)
	return true
}

// Release forgets key, letting the next delivery dispatch it again.
func (d *Deduplicator) Release(key string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
}

func (d *Deduplicator) evict(now time.Time) {
	for k, expires := range d.seen {
		if !now.Before(expires) {
			delete(d.seen, k)
		}
	}
}
