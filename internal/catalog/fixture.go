package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// MemoryRepository serves a catalog held in memory. It backs the JSON fixture
// loader and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	coaches  map[string]Coach
	services map[string][]Service
	slots    map[string][]AvailabilitySlot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		coaches:  make(map[string]Coach),
		services: make(map[string][]Service),
		slots:    make(map[string][]AvailabilitySlot),
	}
}

// Put replaces everything stored for coach.ID.
func (r *MemoryRepository) Put(coach Coach, services []Service, slots []AvailabilitySlot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range services {
		services[i].CoachID = coach.ID
	}
	for i := range slots {
		slots[i].CoachID = coach.ID
	}
	r.coaches[coach.ID] = coach
	r.services[coach.ID] = append([]Service(nil), services...)
	r.slots[coach.ID] = append([]AvailabilitySlot(nil), slots...)
}

// SetBooked flips the booked flag of a slot, reporting whether it was found.
func (r *MemoryRepository) SetBooked(slotID string, booked bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for coachID, slots := range r.slots {
		for i := range slots {
			if slots[i].ID == slotID {
				r.slots[coachID][i].IsBooked = booked
				return true
			}
		}
	}
	return false
}

func (r *MemoryRepository) GetCoach(_ context.Context, coachID string) (*Coach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coach, ok := r.coaches[coachID]
	if !ok {
		return nil, ErrCoachNotFound
	}
	return &coach, nil
}

func (r *MemoryRepository) ListServices(_ context.Context, coachID string) ([]Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Service{}, r.services[coachID]...), nil
}

func (r *MemoryRepository) ListSlots(_ context.Context, coachID string, from, to Date) ([]AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := from.String(), to.String()
	slots := []AvailabilitySlot{}
	for _, s := range r.slots[coachID] {
		if s.Date >= lo && s.Date <= hi {
			slots = append(slots, s)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots, nil
}

type fixtureFile struct {
	Coaches []fixtureCoach `json:"coaches"`
}

type fixtureCoach struct {
	Coach
	Services     []Service     `json:"services"`
	Availability []fixtureSlot `json:"availability"`
}

// fixtureSlot accepts either an absolute date or a day offset from the load
// day, so sample data stays bookable.
type fixtureSlot struct {
	AvailabilitySlot
	DayOffset *int `json:"day_offset,omitempty"`
}

// LoadFixture reads a JSON catalog fixture from path.
func LoadFixture(path string, today Date) (*MemoryRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	return ReadFixture(f, today)
}

func ReadFixture(r io.Reader, today Date) (*MemoryRepository, error) {
	var file fixtureFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	repo := NewMemoryRepository()
	for _, fc := range file.Coaches {
		if fc.ID == "" {
			return nil, fmt.Errorf("fixture coach without id")
		}
		slots := make([]AvailabilitySlot, 0, len(fc.Availability))
		for _, fs := range fc.Availability {
			slot := fs.AvailabilitySlot
			if fs.DayOffset != nil {
				slot.Date = today.AddDays(*fs.DayOffset).String()
			}
			if _, err := ParseDate(slot.Date); err != nil {
				return nil, fmt.Errorf("fixture slot %s: %w", slot.ID, err)
			}
			if slot.ID == "" {
				slot.ID = fmt.Sprintf("slot-%s-%s-%s", fc.ID, slot.Date, slot.StartTime)
			}
			slots = append(slots, slot)
		}
		repo.Put(fc.Coach, fc.Services, slots)
	}
	return repo, nil
}
