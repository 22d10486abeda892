package catalog

import "strings"

type ServiceKind string

const (
	KindSession ServiceKind = "session"
	KindProgram ServiceKind = "program"
	KindCustom  ServiceKind = "custom"
)

type DurationUnit string

const (
	UnitMinutes DurationUnit = "minutes"
	UnitWeeks   DurationUnit = "weeks"
)

type Coach struct {
	ID            string `db:"id" json:"id" bson:"_id"`
	FirstName     string `db:"first_name" json:"first_name" bson:"first_name"`
	LastName      string `db:"last_name" json:"last_name" bson:"last_name"`
	IsContactOnly bool   `db:"is_contact_only" json:"is_contact_only" bson:"is_contact_only"`
}

func (c Coach) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Bundle is a prepaid pack of session credits sold at a single price.
type Bundle struct {
	Credits          int   `json:"credits" bson:"credits"`
	PriceCents       int64 `json:"price_cents" bson:"price_cents"`
	ExpirationMonths *int  `json:"expiration_months,omitempty" bson:"expiration_months,omitempty"`
}

type Service struct {
	ID           string       `json:"id" bson:"_id"`
	CoachID      string       `json:"coach_id" bson:"coach_id"`
	Name         string       `json:"name" bson:"name"`
	Kind         ServiceKind  `json:"type" bson:"type"`
	PriceCents   int64        `json:"price_cents" bson:"price_cents"`
	Duration     int          `json:"duration,omitempty" bson:"duration,omitempty"`
	DurationUnit DurationUnit `json:"duration_unit,omitempty" bson:"duration_unit,omitempty"`
	Description  string       `json:"description,omitempty" bson:"description,omitempty"`
	Bundle       *Bundle      `json:"bundle,omitempty" bson:"bundle,omitempty"`
	IsActive     bool         `json:"is_active" bson:"is_active"`
}

// AvailabilitySlot is a bookable window on a coach's calendar. Date is
// YYYY-MM-DD; StartTime and EndTime are zero-padded HH:mm in the coach's
// local wall clock.
type AvailabilitySlot struct {
	ID        string `db:"id" json:"id" bson:"_id"`
	CoachID   string `db:"coach_id" json:"coach_id" bson:"coach_id"`
	Date      string `db:"slot_date" json:"date" bson:"date"`
	StartTime string `db:"start_time" json:"start_time" bson:"start_time"`
	EndTime   string `db:"end_time" json:"end_time" bson:"end_time"`
	ServiceID string `db:"service_id" json:"service_id" bson:"service_id"`
	IsBooked  bool   `db:"is_booked" json:"is_booked" bson:"is_booked"`
}

type CoachCatalog struct {
	Coach    Coach              `json:"coach"`
	Services []Service          `json:"services"`
	Slots    []AvailabilitySlot `json:"availability"`
}

func ActiveServices(services []Service) []Service {
	active := make([]Service, 0, len(services))
	for _, s := range services {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active
}

func (c *CoachCatalog) FindService(id string) (Service, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func (c *CoachCatalog) FindSlot(id string) (AvailabilitySlot, bool) {
	for _, s := range c.Slots {
		if s.ID == id {
			return s, true
		}
	}
	return AvailabilitySlot{}, false
}
