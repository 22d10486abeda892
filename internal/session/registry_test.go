package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t0mb36/veloApp-sub001/internal/availability"
	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
}

func TestRegistry_GetCreatesOnce(t *testing.T) {
	reg := NewRegistry(time.Minute)

	a := reg.Get("abc")
	b := reg.Get("abc")

	assert.Same(t, a, b)
	assert.Equal(t, "abc", a.ID)
	assert.Equal(t, 1, reg.Len())

	_, ok := reg.Lookup("other")
	assert.False(t, ok)
}

func TestRegistry_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewRegistry(0).TTL())
}

func TestRegistry_SweepExpiresIdleSessions(t *testing.T) {
	clock := newClock()
	reg := NewRegistry(10*time.Minute, WithClock(clock.Now), WithCartOptions(cart.WithIDGenerator(cart.SequentialIDs("line"))))

	stale := reg.Get("stale")
	stale.Cart.AddItem(cart.Descriptor{ServiceID: "svc-1", CoachID: "c1", PriceCents: 5000, Quantity: 1})

	clock.Advance(6 * time.Minute)
	reg.Get("fresh")
	clock.Advance(6 * time.Minute)

	removed := reg.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Lookup("stale")
	assert.False(t, ok)
	assert.Zero(t, stale.Cart.Len())
}

func TestRegistry_GetKeepsSessionAlive(t *testing.T) {
	clock := newClock()
	reg := NewRegistry(10*time.Minute, WithClock(clock.Now))

	reg.Get("abc")
	for i := 0; i < 5; i++ {
		clock.Advance(5 * time.Minute)
		reg.Get("abc")
	}

	assert.Zero(t, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_End(t *testing.T) {
	reg := NewRegistry(time.Minute)
	s := reg.Get("abc")
	s.Cart.AddItem(cart.Descriptor{ServiceID: "svc-1", CoachID: "c1", PriceCents: 100, Quantity: 2})

	reg.End("abc")
	reg.End("missing")

	assert.Zero(t, reg.Len())
	assert.Zero(t, s.Cart.TotalItems())
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	reg := NewRegistry(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSession_SelectorPerCoach(t *testing.T) {
	s := NewRegistry(time.Minute).Get("abc")

	calls := 0
	create := func() *availability.Selector {
		calls++
		return availability.NewSelector([]catalog.Service{{ID: "svc-1", IsActive: true}}, nil)
	}

	a := s.Selector("c1", create)
	b := s.Selector("c1", create)
	c := s.Selector("c2", create)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, calls)

	got, ok := s.LookupSelector("c2")
	require.True(t, ok)
	assert.Same(t, c, got)
	_, ok = s.LookupSelector("c3")
	assert.False(t, ok)
}
