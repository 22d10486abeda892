package catalog

import (
	"context"
	"errors"
)

var ErrCoachNotFound = errors.New("coach not found")

type Repository interface {
	GetCoach(ctx context.Context, coachID string) (*Coach, error)
	ListServices(ctx context.Context, coachID string) ([]Service, error)
	ListSlots(ctx context.Context, coachID string, from, to Date) ([]AvailabilitySlot, error)
}
