package session

import (
	"context"
	"sync"
	"time"

	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
	"github.com/t0mb36/veloApp-sub001/internal/metrics"
)

const (
	DefaultTTL      = 30 * time.Minute
	defaultInterval = time.Minute
)

// Registry holds the live sessions keyed by session id.
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	cartOpts []cart.Option
}

type RegistryOption func(*Registry)

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithCartOptions is applied to every cart the registry creates.
func WithCartOptions(opts ...cart.Option) RegistryOption {
	return func(r *Registry) { r.cartOpts = append(r.cartOpts, opts...) }
}

// NewRegistry creates a registry whose sessions expire after ttl without use.
func NewRegistry(ttl time.Duration, opts ...RegistryOption) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Get returns the session for id, creating it on first use, and marks it as
// seen.
func (r *Registry) Get(id string) *Session {
	now := r.now()

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(now)
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s
	}

	s = newSession(id, now, r.cartOpts...)
	s.unsub = s.Cart.Subscribe(func(ev cart.Event) {
		metrics.RecordCartEvent(string(ev.Type))
	})
	r.sessions[id] = s
	metrics.SetActiveSessions(len(r.sessions))
	logger.Debug("session started", "session_id", id)
	return s
}

// Lookup returns the session for id without creating or touching it.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// End removes the session and clears its cart. Unknown ids are ignored.
func (r *Registry) End(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.end()
	metrics.SetActiveSessions(n)
	logger.Debug("session ended", "session_id", id)
}

// Sweep ends every session idle for longer than the ttl and returns how many
// were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > r.ttl {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.end()
	}
	if len(expired) > 0 {
		metrics.SetActiveSessions(n)
		logger.Info("expired idle sessions", "count", len(expired), "active", n)
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
