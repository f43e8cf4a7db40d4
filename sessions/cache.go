package sessions

import (
	"sync"
	"time"
)

// DefaultTTL is how long a central cache entry stays live. It matches the
// browser session cookie lifetime so both expire together.
const DefaultTTL = 15 * time.Minute

// Entry is one active login in the central session cache.
type Entry struct {
	UserEmail    string    `json:"userEmail"`
	SessionID    string    `json:"sessionId"`
	SessionStart time.Time `json:"sessionStart"`
}

// Cache is the in-memory central store of active user sessions. It is the
// authority for "is this login still alive", independent of the browser
// cookie, so a backchannel logout can kill a session the browser still
// presents a cookie for.
//
// The whole collection lives in a single mutable slot. Every operation takes
// the lock around the full read-prune-write cycle - two requests pruning and
// rewriting concurrently must never lose each other's entries.
type Cache struct {
	mu      sync.Mutex
	entries []Entry
	ttl     time.Duration
	nowTime func() time.Time
}

// CacheOption modifies a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowTime = nowFunc
	}
}

// NewCache creates an empty Cache.
func NewCache(options ...CacheOption) *Cache {
	c := &Cache{
		ttl:     DefaultTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Add records a new live session. Entries without an identifying email are
// silently ignored, as is an add for a user who already has a live entry
// after pruning.
func (c *Cache) Add(entry Entry) {
	if entry.UserEmail == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.pruned(c.nowTime())
	for _, existing := range live {
		if existing.UserEmail == entry.UserEmail {
			c.entries = live
			return
		}
	}
	c.entries = append(live, entry)
}

// Prune removes every entry older than the TTL.
func (c *Cache) Prune(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = c.pruned(now)
}

// IsValid prunes, then reports whether a live entry with the given session id
// remains.
func (c *Cache) IsValid(sessionID string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = c.pruned(now)
	for _, entry := range c.entries {
		if entry.SessionID == sessionID {
			return true
		}
	}
	return false
}

// RemoveBySessionID drops every entry with the given session id. Used by
// backchannel logout; removing an id with no matches is not an error.
func (c *Cache) RemoveBySessionID(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.SessionID != sessionID {
			kept = append(kept, entry)
		}
	}
	c.entries = kept
}

// Len reports the current number of entries, live or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// pruned returns the live entries as of now. Callers must hold the lock.
func (c *Cache) pruned(now time.Time) []Entry {
	kept := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if now.Sub(entry.SessionStart) <= c.ttl {
			kept = append(kept, entry)
		}
	}
	return kept
}
