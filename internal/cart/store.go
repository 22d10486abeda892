// Package cart holds a shopping cart in memory: merge-aware insertion,
// quantity updates, removal and derived totals.
//
// Like the selector it feeds from, the store never returns errors. Input it
// cannot apply is dropped and the cart is left as it was.
package cart

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/t0mb36/veloApp-sub001/internal/logger"
)

// NewUUID is the default line id generator.
func NewUUID() string {
	return "cart-" + uuid.NewString()
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ... It never
// repeats within one generator.
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}

type Option func(*Store)

// WithIDGenerator overrides how line ids are minted. The generator must not
// return an id twice for the lifetime of the store.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

type Store struct {
	mu      sync.Mutex
	writeMu sync.Mutex

	items []LineItem
	open  bool
	newID func() string

	observers []observer
	nextObsID int
}

func NewStore(opts ...Option) *Store {
	s := &Store{newID: NewUUID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	items := append(make([]LineItem, 0, len(s.items)), s.items...)
	total := s.totalPriceLocked()
	return Snapshot{
		Items:           items,
		TotalItems:      s.totalItemsLocked(),
		TotalPriceCents: total,
		TotalPrice:      total.String(),
		IsOpen:          s.open,
	}
}

func (s *Store) totalItemsLocked() int {
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) totalPriceLocked() Cents {
	var total int64
	for _, item := range s.items {
		total += item.SubtotalCents()
	}
	return Cents(total)
}

// mutate runs fn under the state lock. fn returns the event to publish, or
// an empty type when nothing changed. writeMu keeps notifications in
// mutation order while leaving observers free to read the store.
func (s *Store) mutate(fn func() (EventType, string)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	typ, itemID := fn()
	if typ == "" {
		s.mu.Unlock()
		return
	}
	ev := Event{Type: typ, ItemID: itemID, Cart: s.snapshotLocked()}
	observers := append([]observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(ev)
	}
}

// Subscribe registers fn to receive every applied mutation. Callbacks run
// synchronously in mutation order and must not mutate the store.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// AddItem merges d into the line with the same merge key, summing quantities,
// or appends a new line. On merge the newest descriptor's price and display
// fields replace the stored ones. Any accepted add opens the cart.
//
// Descriptors with a non-positive quantity or a negative price are dropped;
// the returned bool reports whether d was applied.
func (s *Store) AddItem(d Descriptor) (LineItem, bool) {
	var result LineItem
	var applied bool

	s.mutate(func() (EventType, string) {
		if d.Quantity <= 0 || d.PriceCents < 0 {
			return "", ""
		}
		s.open = true
		applied = true

		key := d.Key()
		for i := range s.items {
			if s.items[i].Key() != key {
				continue
			}
			merged := d
			merged.Quantity = s.items[i].Quantity + d.Quantity
			s.items[i].Descriptor = merged
			result = s.items[i]
			return ItemMerged, result.ID
		}

		result = LineItem{ID: s.newID(), Descriptor: d}
		s.items = append(s.items, result)
		return ItemAdded, result.ID
	})

	return result, applied
}

// RemoveItem drops the line with id. Unknown ids are ignored.
func (s *Store) RemoveItem(id string) {
	s.mutate(func() (EventType, string) {
		return s.removeLocked(id)
	})
}

func (s *Store) removeLocked(id string) (EventType, string) {
	i := s.indexOf(id)
	if i < 0 {
		return "", ""
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return ItemRemoved, id
}

// UpdateQuantity sets the quantity of line id. A quantity of zero or less
// removes the line. Scheduled lines are updated like any other; keeping
// them at one is left to the caller.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mutate(func() (EventType, string) {
		if quantity <= 0 {
			return s.removeLocked(id)
		}
		i := s.indexOf(id)
		if i < 0 || s.items[i].Quantity == quantity {
			return "", ""
		}
		if s.items[i].IsScheduled() {
			logger.Debug("quantity changed on scheduled cart line", "item_id", id, "quantity", quantity)
		}
		s.items[i].Quantity = quantity
		return QuantityUpdated, id
	})
}

// ClearCart removes every line. The open flag is left alone.
func (s *Store) ClearCart() {
	s.mutate(func() (EventType, string) {
		if len(s.items) == 0 {
			return "", ""
		}
		s.items = nil
		return Cleared, ""
	})
}

func (s *Store) OpenCart() {
	s.mutate(func() (EventType, string) {
		if s.open {
			return "", ""
		}
		s.open = true
		return Opened, ""
	})
}

func (s *Store) CloseCart() {
	s.mutate(func() (EventType, string) {
		if !s.open {
			return "", ""
		}
		s.open = false
		return Closed, ""
	})
}

// Items returns the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]LineItem, 0, len(s.items)), s.items...)
}

func (s *Store) Item(id string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalItems is the sum of quantities over all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItemsLocked()
}

// TotalPrice is the sum of price times quantity over all lines.
func (s *Store) TotalPrice() Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPriceLocked()
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
