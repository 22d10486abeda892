// Package booking drives the shopper-facing booking flow: it keeps each
// session's selectors in step with the coach catalog and turns services and
// resolved selections into cart lines.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/t0mb36/veloApp-sub001/internal/availability"
	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
	"github.com/t0mb36/veloApp-sub001/internal/metrics"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

var (
	ErrContactOnly      = errors.New("coach takes bookings by message only")
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceInactive  = errors.New("service is not offered")
	ErrNoBundle         = errors.New("service has no bundle")
	ErrSlotUnavailable  = errors.New("slot is not available")
	ErrNoSelection      = errors.New("no date, service and time selected")
	ErrItemRejected     = errors.New("cart rejected the item")
	ErrCartItemNotFound = errors.New("cart item not found")
)

const bundleSuffix = " (Bundle)"

type Service interface {
	// Selector returns the session's selector for the coach, refreshed with
	// the current catalog.
	Selector(ctx context.Context, sess *session.Session, coachID string) (*availability.Selector, error)
	AddService(ctx context.Context, sess *session.Session, req AddServiceRequest) (cart.LineItem, error)
	// AddSelection adds the session's resolved selection for the coach as a
	// scheduled line and clears the chosen slot.
	AddSelection(ctx context.Context, sess *session.Session, coachID string) (cart.LineItem, error)
}

type service struct {
	catalog  catalog.Service
	location *time.Location
	now      func() time.Time
}

func NewService(catalogService catalog.Service, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		catalog:  catalogService,
		location: loc,
		now:      time.Now,
	}
}

func (s *service) load(ctx context.Context, coachID string) (*catalog.CoachCatalog, error) {
	cat, err := s.catalog.GetCatalog(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if cat.Coach.IsContactOnly {
		return nil, ErrContactOnly
	}
	return cat, nil
}

func (s *service) selectorFor(sess *session.Session, cat *catalog.CoachCatalog) *availability.Selector {
	created := false
	sel := sess.Selector(cat.Coach.ID, func() *availability.Selector {
		created = true
		return availability.NewSelector(cat.Services, cat.Slots,
			availability.WithClock(s.now),
			availability.WithLocation(s.location),
		)
	})
	if !created {
		sel.SetServices(cat.Services)
		sel.SetSlots(cat.Slots)
	}
	return sel
}

func (s *service) Selector(ctx context.Context, sess *session.Session, coachID string) (*availability.Selector, error) {
	cat, err := s.load(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return s.selectorFor(sess, cat), nil
}

func (s *service) AddService(ctx context.Context, sess *session.Session, req AddServiceRequest) (cart.LineItem, error) {
	cat, err := s.load(ctx, req.CoachID)
	if err != nil {
		return cart.LineItem{}, err
	}

	svc, ok := cat.FindService(req.ServiceID)
	if !ok {
		return cart.LineItem{}, ErrServiceNotFound
	}
	if !svc.IsActive {
		return cart.LineItem{}, ErrServiceInactive
	}

	d := cart.Descriptor{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		CoachID:     cat.Coach.ID,
		CoachName:   cat.Coach.FullName(),
		PriceCents:  svc.PriceCents,
		Quantity:    1,
	}

	if req.Bundle {
		if svc.Bundle == nil {
			return cart.LineItem{}, ErrNoBundle
		}
		d.IsBundle = true
		d.ServiceName = svc.Name + bundleSuffix
		d.PriceCents = svc.Bundle.PriceCents
		d.BundleCredits = svc.Bundle.Credits
	}

	if req.SlotID != "" {
		slot, ok := cat.FindSlot(req.SlotID)
		if !ok || slot.IsBooked {
			return cart.LineItem{}, ErrSlotUnavailable
		}
		date, err := catalog.ParseDate(slot.Date)
		if err != nil {
			return cart.LineItem{}, err
		}
		d.SlotID = slot.ID
		d.SlotDate = relativeLabel(date, catalog.Today(s.now(), s.location))
		d.SlotTime = slot.StartTime
	}

	item, ok := sess.Cart.AddItem(d)
	if !ok {
		return cart.LineItem{}, ErrItemRejected
	}

	logger.Info("service added to cart",
		"session_id", sess.ID,
		"coach_id", d.CoachID,
		"service_id", d.ServiceID,
		"bundle", d.IsBundle,
		"slot_id", d.SlotID,
	)
	return item, nil
}

func (s *service) AddSelection(ctx context.Context, sess *session.Session, coachID string) (cart.LineItem, error) {
	cat, err := s.load(ctx, coachID)
	if err != nil {
		return cart.LineItem{}, err
	}
	sel := s.selectorFor(sess, cat)

	selection, ok := sel.ResolveSelection()
	if !ok {
		metrics.RecordSelectionResolution("empty")
		return cart.LineItem{}, ErrNoSelection
	}
	metrics.RecordSelectionResolution("resolved")

	date, err := catalog.ParseDate(selection.Slot.Date)
	if err != nil {
		return cart.LineItem{}, err
	}

	item, ok := sess.Cart.AddItem(cart.Descriptor{
		ServiceID:   selection.Service.ID,
		ServiceName: selection.Service.Name,
		CoachID:     cat.Coach.ID,
		CoachName:   cat.Coach.FullName(),
		PriceCents:  selection.Service.PriceCents,
		Quantity:    1,
		SlotID:      selection.Slot.ID,
		SlotDate:    date.Label(),
		SlotTime:    selection.Slot.StartTime,
	})
	if !ok {
		return cart.LineItem{}, ErrItemRejected
	}
	sel.ClearSlot()

	logger.Info("selection added to cart",
		"session_id", sess.ID,
		"coach_id", cat.Coach.ID,
		"service_id", selection.Service.ID,
		"slot_id", selection.Slot.ID,
	)
	return item, nil
}

// relativeLabel names today and tomorrow, and falls back to "Mon, Jan 2".
func relativeLabel(date, today catalog.Date) string {
	switch {
	case date.Equal(today):
		return "Today"
	case date.Equal(today.AddDays(1)):
		return "Tomorrow"
	default:
		return date.Label()
	}
}
