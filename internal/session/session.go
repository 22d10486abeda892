// Package session keeps the per-visitor state of the booking flow: one cart
// and one availability selector per coach, held in memory for as long as the
// visitor keeps using them.
package session

import (
	"sync"
	"time"

	"github.com/t0mb36/veloApp-sub001/internal/availability"
	"github.com/t0mb36/veloApp-sub001/internal/cart"
)

type Session struct {
	ID   string
	Cart *cart.Store

	mu        sync.Mutex
	selectors map[string]*availability.Selector
	lastSeen  time.Time
	unsub     func()
}

func newSession(id string, now time.Time, opts ...cart.Option) *Session {
	return &Session{
		ID:        id,
		Cart:      cart.NewStore(opts...),
		selectors: make(map[string]*availability.Selector),
		lastSeen:  now,
	}
}

// Selector returns the session's selector for coachID, calling create the
// first time the coach is visited.
func (s *Session) Selector(coachID string, create func() *availability.Selector) *availability.Selector {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel, ok := s.selectors[coachID]; ok {
		return sel
	}
	sel := create()
	s.selectors[coachID] = sel
	return sel
}

// LookupSelector returns the selector for coachID without creating one.
func (s *Session) LookupSelector(coachID string) (*availability.Selector, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selectors[coachID]
	return sel, ok
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// end clears the cart and drops the selectors. Nothing survives a session.
func (s *Session) end() {
	s.Cart.ClearCart()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.selectors = make(map[string]*availability.Selector)
}
