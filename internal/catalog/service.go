package catalog

import (
	"context"
	"time"
)

const DefaultWindowDays = 60

type Service interface {
	// GetCatalog returns the coach with all services and the slots from today
	// through the configured window.
	GetCatalog(ctx context.Context, coachID string) (*CoachCatalog, error)
}

type catalogService struct {
	repo       Repository
	windowDays int
	location   *time.Location
	now        func() time.Time
}

func NewService(repo Repository, windowDays int, loc *time.Location) Service {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return &catalogService{
		repo:       repo,
		windowDays: windowDays,
		location:   loc,
		now:        time.Now,
	}
}

func (s *catalogService) GetCatalog(ctx context.Context, coachID string) (*CoachCatalog, error) {
	coach, err := s.repo.GetCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}

	services, err := s.repo.ListServices(ctx, coachID)
	if err != nil {
		return nil, err
	}

	today := Today(s.now(), s.location)
	slots, err := s.repo.ListSlots(ctx, coachID, today, today.AddDays(s.windowDays))
	if err != nil {
		return nil, err
	}

	return &CoachCatalog{
		Coach:    *coach,
		Services: services,
		Slots:    slots,
	}, nil
}
