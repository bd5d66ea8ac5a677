// Package debounce suppresses re-publication of recently emitted events.
// Overlapping extraction windows and the polling cadence can both surface
// the same delta twice in quick succession; a short trailing window on the
// event signature filters those without touching legitimate distinct events.
package debounce

import (
	"time"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/signal"
)

// DefaultTTL is the trailing window during which a duplicate signature is
// suppressed.
const DefaultTTL = 5 * time.Second

// Cache remembers when each event signature was last cleared for publishing.
// It is owned by the driver loop and is not safe for concurrent use.
type Cache struct {
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

// Option configures Cache construction parameters.
type Option func(*Cache)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a cache with the given trailing window; non-positive ttl falls
// back to DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShouldPublish evicts entries older than the window, then reports whether
// ev is new within it. Callers record the signature with MarkPublished once
// delivery actually succeeds; a failed delivery leaves the cache untouched
// so the next tick can retry the same diff.
func (c *Cache) ShouldPublish(ev signal.Event) bool {
	sig := ev.Signature()
	now := c.now()

	for s, ts := range c.seen {
		if now.Sub(ts) > c.ttl {
			delete(c.seen, s)
		}
	}

	_, dup := c.seen[sig]
	return !dup
}

// MarkPublished records ev's signature at the current time.
func (c *Cache) MarkPublished(ev signal.Event) {
	c.seen[ev.Signature()] = c.now()
}

// Size returns the number of signatures currently held.
func (c *Cache) Size() int { return len(c.seen) }
