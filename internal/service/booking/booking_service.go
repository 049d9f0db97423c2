package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/Domenick1991/cargobooking/internal/kafka"
	"github.com/Domenick1991/cargobooking/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, refID string) (*domain.Booking, error)
	DepartBooking(ctx context.Context, refID, location, flightID string) (*domain.Booking, error)
	ArriveBooking(ctx context.Context, refID, location string) (*domain.Booking, error)
	DeliverBooking(ctx context.Context, refID, location string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, refID string) (*domain.Booking, error)
}

// Reserver reserves weight on a single flight leg.
type Reserver interface {
	Reserve(ctx context.Context, flightID string, weightKg int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	RefID       string   `json:"ref_id"`
	UserID      string   `json:"user_id"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Pieces      int      `json:"pieces"`
	WeightKg    int      `json:"weight_kg"`
	FlightIDs   []string `json:"flight_ids"`
}

type Service struct {
	bookings           repository.BookingRepository
	reserver           Reserver
	producer           Producer
	eventsTopic        string
	notificationsTopic string
}

type ServiceOption func(*Service)

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) {
		s.notificationsTopic = topic
	}
}

func NewService(bookings repository.BookingRepository, reserver Reserver, producer Producer, eventsTopic string, opts ...ServiceOption) *Service {
	service := &Service{
		bookings:    bookings,
		reserver:    reserver,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves weight on every leg in list order, then persists the
// booking with its initial BOOKED event. A failed leg aborts immediately and
// surfaces that leg's error; weight already reserved on earlier legs stays
// reserved. The same holds if the insert itself fails after all legs
// succeeded. This inconsistency window is an accepted limitation.
func (s *Service) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.RefID == "" {
		return nil, errors.New("ref_id is required")
	}
	if input.WeightKg <= 0 {
		return nil, errors.New("weight must be positive")
	}
	if input.Pieces <= 0 {
		return nil, errors.New("pieces must be positive")
	}
	if len(input.FlightIDs) == 0 {
		return nil, errors.New("at least one flight is required")
	}

	for _, flightID := range input.FlightIDs {
		if err := s.reserver.Reserve(ctx, flightID, input.WeightKg); err != nil {
			return nil, err
		}
	}

	booking := &domain.Booking{
		RefID:       input.RefID,
		UserID:      input.UserID,
		Origin:      input.Origin,
		Destination: input.Destination,
		Pieces:      input.Pieces,
		WeightKg:    input.WeightKg,
		Status:      domain.BookingStatusBooked,
		FlightIDs:   input.FlightIDs,
	}
	initial := newEvent(input.RefID, domain.BookingStatusBooked, "", "", map[string]string{"action": "created"})

	if err := s.bookings.Create(ctx, booking, initial); err != nil {
		return nil, err
	}
	booking.Events = []domain.BookingEvent{*initial}

	s.publish(ctx, "booking_created", booking, initial)
	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, refID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	events, err := s.bookings.ListEvents(ctx, refID)
	if err != nil {
		return nil, err
	}
	booking.Events = events
	return booking, nil
}

func (s *Service) DepartBooking(ctx context.Context, refID, location, flightID string) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusDeparted, "booking_departed", location, flightID, nil)
}

func (s *Service) ArriveBooking(ctx context.Context, refID, location string) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusArrived, "booking_arrived", location, "", nil)
}

func (s *Service) DeliverBooking(ctx context.Context, refID, location string) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusDelivered, "booking_delivered", location, "", nil)
}

// CancelBooking rejects bookings that already arrived or were delivered.
// Reserved flight capacity is not released on cancellation.
func (s *Service) CancelBooking(ctx context.Context, refID string) (*domain.Booking, error) {
	return s.transition(ctx, refID, domain.BookingStatusCancelled, "booking_cancelled", "", "", map[string]string{"reason": "user requested cancellation"})
}

func (s *Service) transition(ctx context.Context, refID string, to domain.BookingStatus, eventType, location, flightID string, metadata map[string]string) (*domain.Booking, error) {
	current, err := s.bookings.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, to) {
		return nil, &domain.InvalidTransitionError{RefID: refID, From: current.Status, To: to}
	}

	event := newEvent(refID, to, location, flightID, metadata)
	updated, err := s.bookings.UpdateStatusWithEvent(ctx, refID, to, event)
	if err != nil {
		return nil, err
	}
	updated.Events = []domain.BookingEvent{*event}

	s.publish(ctx, eventType, updated, event)
	return updated, nil
}

func newEvent(refID string, status domain.BookingStatus, location, flightID string, metadata map[string]string) *domain.BookingEvent {
	return &domain.BookingEvent{
		ID:           uuid.NewString(),
		BookingRefID: refID,
		Status:       status,
		Location:     location,
		FlightID:     flightID,
		Timestamp:    time.Now().UTC(),
		Metadata:     metadata,
	}
}

func (s *Service) publish(ctx context.Context, eventType string, booking *domain.Booking, event *domain.BookingEvent) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	msg := kafka.ShipmentEvent{
		Type:      eventType,
		RefID:     booking.RefID,
		Status:    string(booking.Status),
		Location:  event.Location,
		FlightID:  event.FlightID,
		WeightKg:  booking.WeightKg,
		Timestamp: event.Timestamp,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.RefID, msg); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.RefID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.RefID, msg); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.RefID, err)
		}
	}
}

var _ BookingUseCase = (*Service)(nil)
