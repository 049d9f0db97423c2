package domain

import "time"

type Flight struct {
	FlightID       string    `json:"flight_id"`
	FlightNumber   string    `json:"flight_number"`
	AirlineName    string    `json:"airline_name"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_datetime"`
	ArrivalTime    time.Time `json:"arrival_datetime"`
	MaxWeightKg    int       `json:"max_weight_kg"`
	BookedWeightKg int       `json:"booked_weight_kg"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FlightCapacity is the weight pair the reservation engine works with.
// MaxWeightKg never changes after flight creation; BookedWeightKg only grows
// while bookings are being added.
type FlightCapacity struct {
	FlightID       string
	MaxWeightKg    int
	BookedWeightKg int
}

func (c FlightCapacity) RemainingKg() int {
	return c.MaxWeightKg - c.BookedWeightKg
}

// Route is one itinerary option: a single direct flight or two connecting legs.
type Route []Flight
