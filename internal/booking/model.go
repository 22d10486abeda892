package booking

import (
	"github.com/t0mb36/veloApp-sub001/internal/availability"
	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
)

type AddServiceRequest struct {
	CoachID   string `json:"coach_id" validate:"required,max=64" example:"coach-1"`
	ServiceID string `json:"service_id" validate:"required,max=64" example:"svc-1"`
	Bundle    bool   `json:"bundle" example:"false"`
	SlotID    string `json:"slot_id,omitempty" validate:"max=128" example:"slot-1"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required" example:"2"`
}

type SetMonthRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01" example:"2025-06"`
}

type SelectDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02" example:"2025-06-15"`
}

type SelectServiceRequest struct {
	ServiceID string `json:"service_id" validate:"required" example:"svc-1"`
}

type SelectSlotRequest struct {
	SlotID string `json:"slot_id" validate:"required" example:"slot-1"`
}

// SelectionResponse is the selector state plus what the calendar needs to
// render the chosen day.
type SelectionResponse struct {
	availability.Snapshot
	Slots    []catalog.AvailabilitySlot `json:"slots"`
	Resolved *availability.Selection    `json:"resolved,omitempty"`
}

type CalendarResponse struct {
	Month availability.Month             `json:"month"`
	Days  []availability.DayAvailability `json:"days"`
}

type CartItemResponse struct {
	Item cart.LineItem `json:"item"`
	Cart cart.Snapshot `json:"cart"`
}
