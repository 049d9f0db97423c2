package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrLockContention means the per-flight capacity lock stayed busy for the
	// whole retry budget. The caller may retry the booking later.
	ErrLockContention = errors.New("flight capacity is busy, try again later")
)

// InsufficientCapacityError is a definitive rejection: the flight cannot take
// the requested weight. It is never retried.
type InsufficientCapacityError struct {
	FlightID    string
	RequestedKg int
	RemainingKg int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("flight %s does not have enough capacity: requested %d kg, remaining %d kg",
		e.FlightID, e.RequestedKg, e.RemainingKg)
}

type InvalidTransitionError struct {
	RefID string
	From  BookingStatus
	To    BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot go from %s to %s", e.RefID, e.From, e.To)
}
