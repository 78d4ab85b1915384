package storefront

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	// DefaultIdleTimeout is how long an untouched session stays in memory.
	// Its cart survives eviction in the slot store.
	DefaultIdleTimeout = 2 * time.Hour

	// DefaultMaxSessions bounds the registry. Past it the least recently
	// used session is dropped.
	DefaultMaxSessions = 10000
)

// Registry creates sessions on first use and evicts idle ones. It holds at
// most maxSessions; clients that never send the cookie back cannot grow it
// past that.
type Registry struct {
	mu          sync.Mutex
	sessions    *lru.Cache
	deps        Deps
	idle        time.Duration
	maxSessions int
}

type RegistryOption func(*Registry)

// WithMaxSessions caps the number of live sessions. n <= 0 keeps the default.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

func NewRegistry(deps Deps, idle time.Duration, opts ...RegistryOption) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	r := &Registry{
		deps:        deps,
		idle:        idle,
		maxSessions: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Size is always positive here, the only error lru.New reports.
	r.sessions, _ = lru.NewWithEvict(r.maxSessions, func(_, _ interface{}) {
		r.deps.Metrics.RecordSessionsEvicted(1)
	})
	return r
}

// Get returns the session for id, creating it if needed.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.sessions.Get(id); ok {
		return v.(*Session)
	}
	s := NewSession(id, r.deps)
	if r.sessions.Add(id, s) {
		r.deps.Logger.Debug().Int("max_sessions", r.maxSessions).Msg("session registry full, dropped least recently used")
	}
	r.deps.Metrics.SetActiveSessions(r.sessions.Len())
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Sweep evicts sessions idle since before now minus the idle timeout and
// returns how many were dropped.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.idle)
	evicted := 0
	for _, key := range r.sessions.Keys() {
		v, ok := r.sessions.Peek(key)
		if !ok {
			continue
		}
		if v.(*Session).LastSeen().Before(cutoff) {
			r.sessions.Remove(key)
			evicted++
		}
	}

	if evicted > 0 {
		r.deps.Metrics.SetActiveSessions(r.sessions.Len())
		r.deps.Logger.Debug().Int("evicted", evicted).Int("remaining", r.sessions.Len()).Msg("idle sessions swept")
	}
	return evicted
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.deps.Logger.Info().Dur("interval", interval).Dur("idle_timeout", r.idle).Int("max_sessions", r.maxSessions).Msg("session sweeper starting")
	for {
		select {
		case <-ctx.Done():
			r.deps.Logger.Info().Msg("session sweeper stopped")
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
