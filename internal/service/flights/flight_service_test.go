package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetCapacity(ctx context.Context, flightID string) (*domain.FlightCapacity, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightCapacity), args.Error(1)
}

func (m *MockFlightRepository) UpdateBookedWeight(ctx context.Context, flightID string, newWeightKg int) error {
	args := m.Called(ctx, flightID, newWeightKg)
	return args.Error(0)
}

func (m *MockFlightRepository) CompareAndSetBookedWeight(ctx context.Context, flightID string, oldWeightKg, newWeightKg int) (bool, error) {
	args := m.Called(ctx, flightID, oldWeightKg, newWeightKg)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightRepository) SearchDirect(ctx context.Context, origin, destination string, dayStart, dayEnd time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, dayStart, dayEnd)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) SearchDeparting(ctx context.Context, origin string, dayStart, dayEnd time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, dayStart, dayEnd)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) SearchConnecting(ctx context.Context, origin, destination string, departAfter, departBefore time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, departAfter, departBefore)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockRouteCache struct {
	mock.Mock
}

func (m *MockRouteCache) GetRoutes(ctx context.Context, origin, destination string, date time.Time) ([]domain.Route, error) {
	args := m.Called(ctx, origin, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteCache) SetRoutes(ctx context.Context, origin, destination string, date time.Time, routes []domain.Route) error {
	args := m.Called(ctx, origin, destination, date, routes)
	return args.Error(0)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSearchRoutes_DirectAndConnecting(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	date := day(2023, time.October, 15)
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1).Add(-time.Second)

	direct := domain.Flight{
		FlightID:      "F1",
		FlightNumber:  "AI101",
		AirlineName:   "Air India",
		Origin:        "DEL",
		Destination:   "BLR",
		DepartureTime: date.Add(10 * time.Hour),
		ArrivalTime:   date.Add(12 * time.Hour),
	}
	firstLeg := domain.Flight{
		FlightID:      "F2",
		Origin:        "DEL",
		Destination:   "HYD",
		DepartureTime: date.Add(8 * time.Hour),
		ArrivalTime:   date.Add(10 * time.Hour),
	}
	secondLeg := domain.Flight{
		FlightID:      "F3",
		Origin:        "HYD",
		Destination:   "BLR",
		DepartureTime: date.AddDate(0, 0, 1).Add(9 * time.Hour),
		ArrivalTime:   date.AddDate(0, 0, 1).Add(10 * time.Hour),
	}

	repo.On("SearchDirect", ctx, "DEL", "BLR", dayStart, dayEnd).Return([]domain.Flight{direct}, nil).Once()
	repo.On("SearchDeparting", ctx, "DEL", dayStart, dayEnd).Return([]domain.Flight{direct, firstLeg}, nil).Once()

	// The connecting window runs from the first leg's arrival to the end of
	// the next calendar day. The direct flight is skipped as a first leg.
	departBefore := time.Date(2023, time.October, 16, 23, 59, 59, 0, time.UTC)
	repo.On("SearchConnecting", ctx, "HYD", "BLR", firstLeg.ArrivalTime, departBefore).Return([]domain.Flight{secondLeg}, nil).Once()

	routes, err := service.SearchRoutes(ctx, "DEL", "BLR", date)

	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, domain.Route{direct}, routes[0])
	assert.Equal(t, domain.Route{firstLeg, secondLeg}, routes[1])

	repo.AssertExpectations(t)
}

func TestSearchRoutes_CacheHit(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockRouteCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	date := day(2023, time.October, 15)

	cached := []domain.Route{{domain.Flight{FlightID: "F1"}}}
	cache.On("GetRoutes", ctx, "DEL", "BLR", date).Return(cached, nil).Once()

	routes, err := service.SearchRoutes(ctx, "DEL", "BLR", date)

	require.NoError(t, err)
	assert.Equal(t, cached, routes)
	repo.AssertNotCalled(t, "SearchDirect")
	cache.AssertNotCalled(t, "SetRoutes")
}

func TestSearchRoutes_CacheMiss_PopulatesCache(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockRouteCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	date := day(2023, time.October, 15)
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1).Add(-time.Second)

	cache.On("GetRoutes", ctx, "DEL", "BLR", date).Return(([]domain.Route)(nil), nil).Once()
	repo.On("SearchDirect", ctx, "DEL", "BLR", dayStart, dayEnd).Return([]domain.Flight{}, nil).Once()
	repo.On("SearchDeparting", ctx, "DEL", dayStart, dayEnd).Return([]domain.Flight{}, nil).Once()
	cache.On("SetRoutes", ctx, "DEL", "BLR", date, []domain.Route{}).Return(nil).Once()

	routes, err := service.SearchRoutes(ctx, "DEL", "BLR", date)

	require.NoError(t, err)
	assert.Empty(t, routes)
	cache.AssertExpectations(t)
}

func TestSearchRoutes_RepositoryError(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	date := day(2023, time.October, 15)

	repo.On("SearchDirect", ctx, "DEL", "BLR", mock.Anything, mock.Anything).Return([]domain.Flight{}, errors.New("database error")).Once()

	routes, err := service.SearchRoutes(ctx, "DEL", "BLR", date)

	assert.Error(t, err)
	assert.Nil(t, routes)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()

	repo.On("GetByID", ctx, "NOPE").Return(nil, domain.ErrFlightNotFound).Once()

	flight, err := service.GetByID(ctx, "NOPE")

	assert.Nil(t, flight)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}
