package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) GetCoach(ctx context.Context, coachID string) (*Coach, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coach), args.Error(1)
}

func (m *MockRepo) ListServices(ctx context.Context, coachID string) ([]Service, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Service), args.Error(1)
}

func (m *MockRepo) ListSlots(ctx context.Context, coachID string, from, to Date) ([]AvailabilitySlot, error) {
	args := m.Called(ctx, coachID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AvailabilitySlot), args.Error(1)
}

func newTestService(repo Repository) *catalogService {
	svc := NewService(repo, 14, time.UTC).(*catalogService)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC) }
	return svc
}

func TestGetCatalog(t *testing.T) {
	repo := new(MockRepo)
	ctx := context.Background()

	repo.On("GetCoach", ctx, "c1").Return(&Coach{ID: "c1", FirstName: "Sarah"}, nil)
	repo.On("ListServices", ctx, "c1").Return([]Service{{ID: "s1", IsActive: true}, {ID: "s2"}}, nil)
	repo.On("ListSlots", ctx, "c1", MustParseDate("2025-06-10"), MustParseDate("2025-06-24")).
		Return([]AvailabilitySlot{{ID: "slot-1", Date: "2025-06-15"}}, nil)

	cat, err := newTestService(repo).GetCatalog(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", cat.Coach.ID)
	assert.Len(t, cat.Services, 2)
	assert.Len(t, cat.Slots, 1)

	_, ok := cat.FindService("s2")
	assert.True(t, ok)
	_, ok = cat.FindSlot("slot-9")
	assert.False(t, ok)

	repo.AssertExpectations(t)
}

func TestGetCatalogCoachNotFound(t *testing.T) {
	repo := new(MockRepo)
	ctx := context.Background()
	repo.On("GetCoach", ctx, "nobody").Return(nil, ErrCoachNotFound)

	_, err := newTestService(repo).GetCatalog(ctx, "nobody")
	assert.ErrorIs(t, err, ErrCoachNotFound)
	repo.AssertNotCalled(t, "ListServices", mock.Anything, mock.Anything)
}

func TestActiveServices(t *testing.T) {
	active := ActiveServices([]Service{
		{ID: "a", IsActive: true},
		{ID: "b"},
		{ID: "c", IsActive: true},
	})
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "c", active[1].ID)
}

func TestHandlerGetCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepository()
	repo.Put(Coach{ID: "c1", FirstName: "Sarah"}, []Service{
		{ID: "s1", Name: "Lesson", IsActive: true},
		{ID: "s2", Name: "Hidden"},
	}, nil)

	router := gin.New()
	router.GET("/coaches/:coachID/catalog", NewHandler(newTestService(repo)).GetCatalog)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coaches/c1/catalog", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lesson")
	assert.NotContains(t, w.Body.String(), "Hidden")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coaches/c9/catalog", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerGetCatalogFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockRepo)
	repo.On("GetCoach", mock.Anything, "c1").Return(nil, errors.New("db down"))

	router := gin.New()
	router.GET("/coaches/:coachID/catalog", NewHandler(newTestService(repo)).GetCatalog)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coaches/c1/catalog", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
