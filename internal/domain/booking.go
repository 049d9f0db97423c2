package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusDeparted  BookingStatus = "DEPARTED"
	BookingStatusArrived   BookingStatus = "ARRIVED"
	BookingStatusDelivered BookingStatus = "DELIVERED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// statusEdges lists the allowed forward transitions. Cancellation is only
// possible before the shipment has arrived.
var statusEdges = map[BookingStatus][]BookingStatus{
	BookingStatusBooked:   {BookingStatusDeparted, BookingStatusCancelled},
	BookingStatusDeparted: {BookingStatusArrived, BookingStatusCancelled},
	BookingStatusArrived:  {BookingStatusDelivered},
}

func CanTransition(from, to BookingStatus) bool {
	for _, next := range statusEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	RefID       string
	UserID      string
	Origin      string
	Destination string
	Pieces      int
	WeightKg    int
	Status      BookingStatus
	FlightIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Events      []BookingEvent
}

// BookingEvent is one immutable row of the booking's audit trail.
type BookingEvent struct {
	ID           string
	BookingRefID string
	Status       BookingStatus
	Location     string
	FlightID     string
	Timestamp    time.Time
	Metadata     map[string]string
}
