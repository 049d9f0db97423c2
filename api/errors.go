package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusForError maps the service error taxonomy to HTTP codes. Lock
// contention is a retriable-busy signal, distinct from a capacity rejection.
func statusForError(err error) int {
	var insufficient *domain.InsufficientCapacityError
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.Is(err, domain.ErrFlightNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient), errors.As(err, &invalid):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLockContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) gin.H {
	var insufficient *domain.InsufficientCapacityError
	if errors.As(err, &insufficient) {
		return gin.H{"error": insufficient.Error(), "flight_id": insufficient.FlightID, "remaining_kg": insufficient.RemainingKg}
	}
	return gin.H{"error": err.Error()}
}
