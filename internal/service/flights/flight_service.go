package flights

import (
	"context"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/Domenick1991/cargobooking/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
	SearchRoutes(ctx context.Context, origin, destination string, date time.Time) ([]domain.Route, error)
}

type RouteCache interface {
	GetRoutes(ctx context.Context, origin, destination string, date time.Time) ([]domain.Route, error)
	SetRoutes(ctx context.Context, origin, destination string, date time.Time, routes []domain.Route) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache RouteCache
}

func NewFlightService(repo repository.FlightRepository, cache RouteCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, flightID)
}

// SearchRoutes returns direct flights for the given day plus one-stop routes.
// A connecting leg must depart at or after the first leg's arrival and no
// later than the end of the next calendar day.
func (s *FlightService) SearchRoutes(ctx context.Context, origin, destination string, date time.Time) ([]domain.Route, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx, origin, destination, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)

	routes := make([]domain.Route, 0)

	direct, err := s.repo.SearchDirect(ctx, origin, destination, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, f := range direct {
		routes = append(routes, domain.Route{f})
	}

	firstLegs, err := s.repo.SearchDeparting(ctx, origin, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, first := range firstLegs {
		if first.Destination == destination {
			continue
		}

		departAfter := first.ArrivalTime
		departBefore := endOfNextDay(first.ArrivalTime)

		second, err := s.repo.SearchConnecting(ctx, first.Destination, destination, departAfter, departBefore)
		if err != nil {
			return nil, err
		}
		for _, leg := range second {
			routes = append(routes, domain.Route{first, leg})
		}
	}

	if s.cache != nil {
		_ = s.cache.SetRoutes(ctx, origin, destination, date, routes)
	}
	return routes, nil
}

func endOfNextDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location()).AddDate(0, 0, 1)
}

var _ FlightUseCase = (*FlightService)(nil)
