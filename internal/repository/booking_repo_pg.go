package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking, initial *domain.BookingEvent) error
	GetByRefID(ctx context.Context, refID string) (*domain.Booking, error)
	UpdateStatusWithEvent(ctx context.Context, refID string, status domain.BookingStatus, event *domain.BookingEvent) (*domain.Booking, error)
	ListEvents(ctx context.Context, refID string) ([]domain.BookingEvent, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `ref_id, user_id, origin, destination, pieces, weight_kg, status, flight_ids, created_at, updated_at`

// Create writes the booking row and its initial event in one transaction.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, initial *domain.BookingEvent) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (ref_id, user_id, origin, destination, pieces, weight_kg, status, flight_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		booking.RefID, booking.UserID, booking.Origin, booking.Destination, booking.Pieces, booking.WeightKg, booking.Status, booking.FlightIDs).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	if err := insertEvent(ctx, tx, initial); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByRefID(ctx context.Context, refID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE ref_id=$1`, refID)
	return scanBooking(row)
}

// UpdateStatusWithEvent writes the status change and its audit event in one
// transaction, so the trail never misses a transition.
func (r *PGBookingRepository) UpdateStatusWithEvent(ctx context.Context, refID string, status domain.BookingStatus, event *domain.BookingEvent) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE ref_id=$2
		RETURNING `+bookingColumns, status, refID)
	booking, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *PGBookingRepository) ListEvents(ctx context.Context, refID string) ([]domain.BookingEvent, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_ref_id, status, COALESCE(location, ''), COALESCE(flight_id, ''), timestamp, metadata FROM booking_events WHERE booking_ref_id=$1 ORDER BY timestamp`, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.BookingEvent, 0)
	for rows.Next() {
		var e domain.BookingEvent
		var meta []byte
		if err := rows.Scan(&e.ID, &e.BookingRefID, &e.Status, &e.Location, &e.FlightID, &e.Timestamp, &meta); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.RefID, &b.UserID, &b.Origin, &b.Destination, &b.Pieces, &b.WeightKg, &b.Status, &b.FlightIDs, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

type pgxExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertEvent(ctx context.Context, db pgxExecer, event *domain.BookingEvent) error {
	meta, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `INSERT INTO booking_events (id, booking_ref_id, status, location, flight_id, timestamp, metadata)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
		event.ID, event.BookingRefID, event.Status, event.Location, event.FlightID, event.Timestamp, meta)
	return err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
