package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/t0mb36/veloApp-sub001/internal/availability"
	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) GetCatalog(ctx context.Context, coachID string) (*catalog.CoachCatalog, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CoachCatalog), args.Error(1)
}

// 2025-06-10 09:00 UTC
var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func testCatalog() *catalog.CoachCatalog {
	months := 6
	return &catalog.CoachCatalog{
		Coach: catalog.Coach{ID: "c1", FirstName: "Jordan", LastName: "Lee"},
		Services: []catalog.Service{
			{
				ID: "svc-1", CoachID: "c1", Name: "1:1 Coaching", Kind: catalog.KindSession,
				PriceCents: 5000, Duration: 60, DurationUnit: catalog.UnitMinutes, IsActive: true,
				Bundle: &catalog.Bundle{Credits: 5, PriceCents: 22500, ExpirationMonths: &months},
			},
			{ID: "svc-2", CoachID: "c1", Name: "Video Review", Kind: catalog.KindCustom, PriceCents: 3500, IsActive: true},
			{ID: "svc-3", CoachID: "c1", Name: "Retired Clinic", Kind: catalog.KindProgram, PriceCents: 9900},
		},
		Slots: []catalog.AvailabilitySlot{
			{ID: "s-today", CoachID: "c1", Date: "2025-06-10", StartTime: "15:00", EndTime: "16:00", ServiceID: "svc-1"},
			{ID: "s-tomorrow", CoachID: "c1", Date: "2025-06-11", StartTime: "10:00", EndTime: "11:00", ServiceID: "svc-1"},
			{ID: "s1", CoachID: "c1", Date: "2025-06-15", StartTime: "08:00", EndTime: "09:00", ServiceID: "svc-1"},
			{ID: "s2", CoachID: "c1", Date: "2025-06-15", StartTime: "09:00", EndTime: "10:00", ServiceID: "svc-1", IsBooked: true},
			{ID: "s3", CoachID: "c1", Date: "2025-06-15", StartTime: "07:00", EndTime: "08:00", ServiceID: "svc-1"},
		},
	}
}

func newTestService(cat *MockCatalogService) *service {
	svc := NewService(cat, time.UTC).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

func newTestSession() *session.Session {
	reg := session.NewRegistry(time.Hour, session.WithCartOptions(cart.WithIDGenerator(cart.SequentialIDs("line"))))
	return reg.Get("sess-1")
}

func TestAddService_Single(t *testing.T) {
	cat := new(MockCatalogService)
	cat.On("GetCatalog", mock.Anything, "c1").Return(testCatalog(), nil)
	svc := newTestService(cat)
	sess := newTestSession()

	item, err := svc.AddService(context.Background(), sess, AddServiceRequest{CoachID: "c1", ServiceID: "svc-2"})

	require.NoError(t, err)
	assert.Equal(t, "line-1", item.ID)
	assert.Equal(t, "Video Review", item.ServiceName)
	assert.Equal(t, "Jordan Lee", item.CoachName)
	assert.Equal(t, int64(3500), item.PriceCents)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.IsScheduled())
	assert.True(t, sess.Cart.IsOpen())
	cat.AssertExpectations(t)
}

func TestAddService_Bundle(t *testing.T) {
	cat := new(MockCatalogService)
	cat.On("GetCatalog", mock.Anything, "c1").Return(testCatalog(), nil)
	svc := newTestService(cat)
	sess := newTestSession()

	item, err := svc.AddService(context.Background(), sess, AddServiceRequest{CoachID: "c1", ServiceID: "svc-1", Bundle: true})
	require.NoError(t, err)

	assert.True(t, item.IsBundle)
	assert.Equal(t, "1:1 Coaching (Bundle)", item.ServiceName)
	assert.Equal(t, int64(22500), item.PriceCents)
	assert.Equal(t, 5, item.BundleCredits)

	// the single session is a different line
	single, err := svc.AddService(context.Background(), sess, AddServiceRequest{CoachID: "c1", ServiceID: "svc-1"})
	require.NoError(t, err)
	assert.NotEqual(t, item.ID, single.ID)
	assert.Equal(t, 2, sess.Cart.Len())
}

func TestAddService_SlotLabels(t *testing.T) {
	tests := []struct {
		slotID string
		label  string
		time   string
	}{
		{"s-today", "Today", "15:00"},
		{"s-tomorrow", "Tomorrow", "10:00"},
		{"s1", "Sun, Jun 15", "08:00"},
	}

	for _, tt := range tests {
		t.Run(tt.slotID, func(t *testing.T) {
			cat := new(MockCatalogService)
			cat.On("GetCatalog", mock.Anything, "c1").Return(testCatalog(), nil)
			svc := newTestService(cat)

			item, err := svc.AddService(context.Background(), newTestSession(), AddServiceRequest{CoachID: "c1", ServiceID: "svc-1", SlotID: tt.slotID})

			require.NoError(t, err)
			assert.Equal(t, tt.slotID, item.SlotID)
			assert.Equal(t, tt.label, item.SlotDate)
			assert.Equal(t, tt.time, item.SlotTime)
		})
	}
}

func TestAddService_Errors(t *testing.T) {
	contactOnly := testCatalog()
	contactOnly.Coach.IsContactOnly = true
	noBundle := testCatalog()

	tests := []struct {
		name    string
		catalog *catalog.CoachCatalog
		err     error
		req     AddServiceRequest
		want    error
	}{
		{"unknown coach", nil, catalog.ErrCoachNotFound, AddServiceRequest{CoachID: "c1", ServiceID: "svc-1"}, catalog.ErrCoachNotFound},
		{"contact only", contactOnly, nil, AddServiceRequest{CoachID: "c1", ServiceID: "svc-1"}, ErrContactOnly},
		{"unknown service", testCatalog(), nil, AddServiceRequest{CoachID: "c1", ServiceID: "nope"}, ErrServiceNotFound},
		{"inactive service", testCatalog(), nil, AddServiceRequest{CoachID: "c1", ServiceID: "svc-3"}, ErrServiceInactive},
		{"no bundle", noBundle, nil, AddServiceRequest{CoachID: "c1", ServiceID: "svc-2", Bundle: true}, ErrNoBundle},
		{"booked slot", testCatalog(), nil, AddServiceRequest{CoachID: "c1", ServiceID: "svc-1", SlotID: "s2"}, ErrSlotUnavailable},
		{"unknown slot", testCatalog(), nil, AddServiceRequest{CoachID: "c1", ServiceID: "svc-1", SlotID: "gone"}, ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := new(MockCatalogService)
			if tt.catalog != nil {
				cat.On("GetCatalog", mock.Anything, "c1").Return(tt.catalog, nil)
			} else {
				cat.On("GetCatalog", mock.Anything, "c1").Return(nil, tt.err)
			}
			svc := newTestService(cat)
			sess := newTestSession()

			_, err := svc.AddService(context.Background(), sess, tt.req)

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Zero(t, sess.Cart.Len())
		})
	}
}

func TestSelector_CreatedOnceAndRefreshed(t *testing.T) {
	first := testCatalog()
	second := testCatalog()
	second.Slots[2].IsBooked = true

	cat := new(MockCatalogService)
	cat.On("GetCatalog", mock.Anything, "c1").Return(first, nil).Once()
	cat.On("GetCatalog", mock.Anything, "c1").Return(second, nil).Once()
	svc := newTestService(cat)
	sess := newTestSession()
	ctx := context.Background()

	sel, err := svc.Selector(ctx, sess, "c1")
	require.NoError(t, err)
	date := catalog.MustParseDate("2025-06-15")
	sel.SelectDate(date)
	sel.SelectSlot("s1")
	require.Equal(t, availability.DateWithSlot, sel.State())

	again, err := svc.Selector(ctx, sess, "c1")
	require.NoError(t, err)

	assert.Same(t, sel, again)
	// s1 was booked in the meantime
	assert.Equal(t, availability.DateNoSlot, again.State())
	slots := again.SlotsForDate(date)
	require.Len(t, slots, 1)
	assert.Equal(t, "s3", slots[0].ID)
	cat.AssertExpectations(t)
}

func TestAddSelection(t *testing.T) {
	cat := new(MockCatalogService)
	cat.On("GetCatalog", mock.Anything, "c1").Return(testCatalog(), nil)
	svc := newTestService(cat)
	sess := newTestSession()
	ctx := context.Background()

	sel, err := svc.Selector(ctx, sess, "c1")
	require.NoError(t, err)
	sel.SelectDate(catalog.MustParseDate("2025-06-15"))
	sel.SelectSlot("s3")

	item, err := svc.AddSelection(ctx, sess, "c1")
	require.NoError(t, err)

	assert.Equal(t, "svc-1", item.ServiceID)
	assert.Equal(t, "s3", item.SlotID)
	assert.Equal(t, "Sun, Jun 15", item.SlotDate)
	assert.Equal(t, "07:00", item.SlotTime)
	assert.Equal(t, int64(5000), item.PriceCents)
	assert.False(t, item.IsBundle)
	assert.Equal(t, availability.DateNoSlot, sel.State())

	_, err = svc.AddSelection(ctx, sess, "c1")
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, 1, sess.Cart.Len())
}

func TestAddSelection_NothingChosen(t *testing.T) {
	cat := new(MockCatalogService)
	cat.On("GetCatalog", mock.Anything, "c1").Return(testCatalog(), nil)
	svc := newTestService(cat)

	_, err := svc.AddSelection(context.Background(), newTestSession(), "c1")

	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestRelativeLabel(t *testing.T) {
	today := catalog.MustParseDate("2025-12-31")

	assert.Equal(t, "Today", relativeLabel(today, today))
	assert.Equal(t, "Tomorrow", relativeLabel(catalog.MustParseDate("2026-01-01"), today))
	assert.Equal(t, "Fri, Jan 2", relativeLabel(catalog.MustParseDate("2026-01-02"), today))
}
