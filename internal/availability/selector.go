// Package availability tracks a shopper's date, service and slot selection
// over a coach's availability and exposes the selectable slots per day.
//
// A Selector never reports errors. Invalid input (a past date, an inactive
// service, a slot that is not offered) leaves the state untouched; callers
// read the state back to find out what happened.
package availability

import (
	"sort"
	"sync"
	"time"

	"github.com/t0mb36/veloApp-sub001/internal/catalog"
)

type State int

const (
	NoDate State = iota
	DateNoSlot
	DateWithSlot
)

func (s State) String() string {
	switch s {
	case DateNoSlot:
		return "date_no_slot"
	case DateWithSlot:
		return "date_with_slot"
	default:
		return "no_date"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Selection is a resolved service and slot pair, ready to become a cart line.
type Selection struct {
	Service catalog.Service          `json:"service"`
	Slot    catalog.AvailabilitySlot `json:"slot"`
}

// Snapshot is a read-only copy of the selection state.
type Snapshot struct {
	State       State        `json:"state"`
	ViewedMonth Month        `json:"viewed_month"`
	Date        catalog.Date `json:"date"`
	ServiceID   string       `json:"service_id,omitempty"`
	SlotID      string       `json:"slot_id,omitempty"`
}

// DayAvailability is one cell of the month calendar.
type DayAvailability struct {
	Date      catalog.Date `json:"date"`
	Past      bool         `json:"past"`
	Available bool         `json:"available"`
}

type Option func(*Selector)

func WithClock(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// WithLocation sets the coach-local zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Selector) { s.loc = loc }
}

// StartOnToday preselects the current day, as the booking calendar does when
// it first opens.
func StartOnToday() Option {
	return func(s *Selector) { s.startOnToday = true }
}

type observer struct {
	id int
	fn func(Snapshot)
}

type Selector struct {
	mu      sync.Mutex
	writeMu sync.Mutex

	now          func() time.Time
	loc          *time.Location
	startOnToday bool

	services []catalog.Service
	slots    []catalog.AvailabilitySlot
	byDate   map[string][]catalog.AvailabilitySlot

	month     Month
	date      catalog.Date
	serviceID string
	slotID    string

	observers []observer
	nextObsID int
}

func NewSelector(services []catalog.Service, slots []catalog.AvailabilitySlot, opts ...Option) *Selector {
	s := &Selector{
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.services = services
	s.indexSlots(slots)
	s.serviceID = firstActive(services)

	today := s.today()
	s.month = MonthOf(today)
	if s.startOnToday {
		s.date = today
	}
	return s
}

func (s *Selector) today() catalog.Date {
	return catalog.Today(s.now(), s.loc)
}

func firstActive(services []catalog.Service) string {
	for _, svc := range services {
		if svc.IsActive {
			return svc.ID
		}
	}
	return ""
}

func (s *Selector) activeService(id string) (catalog.Service, bool) {
	for _, svc := range s.services {
		if svc.ID == id && svc.IsActive {
			return svc, true
		}
	}
	return catalog.Service{}, false
}

// indexSlots rebuilds the date index. Each bucket holds only unbooked slots,
// sorted by start time. Zero-padded HH:mm strings sort chronologically.
func (s *Selector) indexSlots(slots []catalog.AvailabilitySlot) {
	s.slots = slots
	s.byDate = make(map[string][]catalog.AvailabilitySlot)
	for _, slot := range slots {
		if slot.IsBooked {
			continue
		}
		s.byDate[slot.Date] = append(s.byDate[slot.Date], slot)
	}
	for _, bucket := range s.byDate {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].StartTime < bucket[j].StartTime
		})
	}
}

func sameSlice(a, b []catalog.AvailabilitySlot) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func (s *Selector) slotOffered(date catalog.Date, slotID string) (catalog.AvailabilitySlot, bool) {
	if date.IsZero() || slotID == "" {
		return catalog.AvailabilitySlot{}, false
	}
	for _, slot := range s.byDate[date.String()] {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return catalog.AvailabilitySlot{}, false
}

func (s *Selector) stateLocked() State {
	switch {
	case s.date.IsZero():
		return NoDate
	case s.slotID == "":
		return DateNoSlot
	default:
		return DateWithSlot
	}
}

func (s *Selector) snapshotLocked() Snapshot {
	return Snapshot{
		State:       s.stateLocked(),
		ViewedMonth: s.month,
		Date:        s.date,
		ServiceID:   s.serviceID,
		SlotID:      s.slotID,
	}
}

// mutate applies fn under the state lock and, when fn reports a change,
// notifies observers. writeMu serialises writers so observers see changes in
// mutation order while still being free to read the selector.
func (s *Selector) mutate(fn func() bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	changed := fn()
	snap := s.snapshotLocked()
	observers := append([]observer(nil), s.observers...)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, o := range observers {
		o.fn(snap)
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// Callbacks run synchronously and must not mutate the selector.
func (s *Selector) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
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

func (s *Selector) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Selector) SetViewedMonth(m Month) {
	s.mutate(func() bool {
		if s.month == m {
			return false
		}
		s.month = m
		return true
	})
}

// SelectDate chooses date and clears the chosen slot. Dates before today are
// ignored.
func (s *Selector) SelectDate(date catalog.Date) {
	s.mutate(func() bool {
		if date.IsZero() || date.Before(s.today()) {
			return false
		}
		s.date = date
		s.slotID = ""
		return true
	})
}

// SelectService chooses an active service and clears the chosen slot. Unknown
// or inactive ids are ignored.
func (s *Selector) SelectService(serviceID string) {
	s.mutate(func() bool {
		if _, ok := s.activeService(serviceID); !ok {
			return false
		}
		s.serviceID = serviceID
		s.slotID = ""
		return true
	})
}

// SelectSlot chooses a slot offered for the current date. Anything else is
// ignored.
func (s *Selector) SelectSlot(slotID string) {
	s.mutate(func() bool {
		if _, ok := s.slotOffered(s.date, slotID); !ok || s.slotID == slotID {
			return false
		}
		s.slotID = slotID
		return true
	})
}

func (s *Selector) ClearSlot() {
	s.mutate(func() bool {
		if s.slotID == "" {
			return false
		}
		s.slotID = ""
		return true
	})
}

// SetSlots replaces the slot list. The index is rebuilt only when the slice
// differs from the current one; callers publish changes by passing a new
// slice. A chosen slot that is no longer offered is dropped.
func (s *Selector) SetSlots(slots []catalog.AvailabilitySlot) {
	s.mutate(func() bool {
		if sameSlice(s.slots, slots) {
			return false
		}
		s.indexSlots(slots)
		if _, ok := s.slotOffered(s.date, s.slotID); !ok && s.slotID != "" {
			s.slotID = ""
			return true
		}
		return false
	})
}

// SetServices replaces the service list. When no service is chosen, or the
// chosen one is no longer active, the first active service becomes the choice
// and the chosen slot is cleared.
func (s *Selector) SetServices(services []catalog.Service) {
	s.mutate(func() bool {
		s.services = services
		if _, ok := s.activeService(s.serviceID); ok {
			return false
		}
		prev := s.serviceID
		s.serviceID = firstActive(services)
		if s.serviceID == prev {
			return false
		}
		s.slotID = ""
		return true
	})
}

// SlotsForDate returns the unbooked slots on date sorted by start time. The
// result is a fresh slice.
func (s *Selector) SlotsForDate(date catalog.Date) []catalog.AvailabilitySlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.byDate[date.String()]
	return append(make([]catalog.AvailabilitySlot, 0, len(bucket)), bucket...)
}

func (s *Selector) HasAvailability(date catalog.Date) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byDate[date.String()]) > 0
}

// MonthAvailability reports per-day indicators for the calendar grid of m.
func (s *Selector) MonthAvailability(m Month) []DayAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	days := m.Days()
	out := make([]DayAvailability, 0, len(days))
	for _, d := range days {
		out = append(out, DayAvailability{
			Date:      d,
			Past:      d.Before(today),
			Available: len(s.byDate[d.String()]) > 0,
		})
	}
	return out
}

// ResolveSelection returns the chosen service and slot when both are chosen,
// the service is still active and the slot is still offered for the chosen
// date.
func (s *Selector) ResolveSelection() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.activeService(s.serviceID)
	if !ok {
		return Selection{}, false
	}
	slot, ok := s.slotOffered(s.date, s.slotID)
	if !ok {
		return Selection{}, false
	}
	return Selection{Service: svc, Slot: slot}, true
}
