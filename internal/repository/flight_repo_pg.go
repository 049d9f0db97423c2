package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
	GetCapacity(ctx context.Context, flightID string) (*domain.FlightCapacity, error)
	UpdateBookedWeight(ctx context.Context, flightID string, newWeightKg int) error
	CompareAndSetBookedWeight(ctx context.Context, flightID string, oldWeightKg, newWeightKg int) (bool, error)
	SearchDirect(ctx context.Context, origin, destination string, dayStart, dayEnd time.Time) ([]domain.Flight, error)
	SearchDeparting(ctx context.Context, origin string, dayStart, dayEnd time.Time) ([]domain.Flight, error)
	SearchConnecting(ctx context.Context, origin, destination string, departAfter, departBefore time.Time) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `flight_id, flight_number, airline_name, origin, destination, departure_datetime, arrival_datetime, max_weight_kg, booked_weight_kg, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_datetime`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, flightID)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) GetCapacity(ctx context.Context, flightID string) (*domain.FlightCapacity, error) {
	row := r.db.QueryRow(ctx, `SELECT flight_id, max_weight_kg, booked_weight_kg FROM flights WHERE flight_id=$1`, flightID)
	var c domain.FlightCapacity
	if err := row.Scan(&c.FlightID, &c.MaxWeightKg, &c.BookedWeightKg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGFlightRepository) UpdateBookedWeight(ctx context.Context, flightID string, newWeightKg int) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET booked_weight_kg=$2, updated_at=now() WHERE flight_id=$1`, flightID, newWeightKg)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// CompareAndSetBookedWeight writes only if the stored value still matches the
// value the caller read. Returns false when another writer got there first.
func (r *PGFlightRepository) CompareAndSetBookedWeight(ctx context.Context, flightID string, oldWeightKg, newWeightKg int) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE flights SET booked_weight_kg=$3, updated_at=now() WHERE flight_id=$1 AND booked_weight_kg=$2`, flightID, oldWeightKg, newWeightKg)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *PGFlightRepository) SearchDirect(ctx context.Context, origin, destination string, dayStart, dayEnd time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure_datetime BETWEEN $3 AND $4
		ORDER BY departure_datetime`, origin, destination, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) SearchDeparting(ctx context.Context, origin string, dayStart, dayEnd time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND departure_datetime BETWEEN $2 AND $3
		ORDER BY departure_datetime`, origin, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) SearchConnecting(ctx context.Context, origin, destination string, departAfter, departBefore time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure_datetime >= $3 AND departure_datetime <= $4
		ORDER BY departure_datetime`, origin, destination, departAfter, departBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.FlightID, &f.FlightNumber, &f.AirlineName, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.MaxWeightKg, &f.BookedWeightKg, &f.CreatedAt, &f.UpdatedAt)
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
