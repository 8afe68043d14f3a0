// Package repo contains all database access logic for the ELD Logbook API.
// Only SQL and type mapping live here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
// Integration tests pass a transaction that is rolled back after each test;
// Begin on a pgx.Tx opens a savepoint, so Create still works inside it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the persistence operations for calculated trips.
type TripRepo interface {
	// Create inserts a trip and its rest stops in one transaction and returns the
	// persisted record with DB-generated ids and timestamps.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a trip with its rest stops in route order.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Delete removes a trip and, by cascade, its rest stops.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, current_location, pickup_location, drop_off_location,
	current_cycle_used, total_distance, total_duration, route_data, created_at, updated_at`

const stopColumns = `id, trip_id, stop_type, distance_from_start, duration, reason, location`

// Create inserts the trip row, then one rest_stops row per stop.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (result domain.Trip, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const insertTrip = `
		INSERT INTO trips (current_location, pickup_location, drop_off_location,
		                   current_cycle_used, total_distance, total_duration, route_data)
		VALUES (@current_location, @pickup_location, @drop_off_location,
		        @current_cycle_used, @total_distance, @total_duration, @route_data)
		RETURNING ` + tripColumns

	var routeData []byte
	if len(trip.RouteData) > 0 {
		routeData = trip.RouteData
	}
	args := pgx.NamedArgs{
		"current_location":   trip.CurrentLocation,
		"pickup_location":    trip.PickupLocation,
		"drop_off_location":  trip.DropOffLocation,
		"current_cycle_used": trip.CurrentCycleUsed,
		"total_distance":     trip.TotalDistance,
		"total_duration":     trip.TotalDuration,
		"route_data":         routeData, // nil becomes NULL
	}

	result, err = scanTrip(tx.QueryRow(ctx, insertTrip, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: insert trip: %w", err)
	}

	const insertStop = `
		INSERT INTO rest_stops (trip_id, position, stop_type, distance_from_start, duration, reason, location)
		VALUES (@trip_id, @position, @stop_type, @distance_from_start, @duration, @reason, @location)
		RETURNING ` + stopColumns

	result.RestStops = make([]domain.RestStop, 0, len(trip.RestStops))
	for i, s := range trip.RestStops {
		stop, serr := scanStop(tx.QueryRow(ctx, insertStop, pgx.NamedArgs{
			"trip_id":             result.ID,
			"position":            i,
			"stop_type":           string(s.Type),
			"distance_from_start": s.DistanceFromStart,
			"duration":            s.Duration,
			"reason":              s.Reason,
			"location":            s.Location,
		}))
		if serr != nil {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: insert stop %d: %w", i, serr)
		}
		result.RestStops = append(result.RestStops, stop.RestStop)
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: commit: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key together with its rest stops.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	trip, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	stops, err := r.stopsFor(ctx, []uuid.UUID{trip.ID})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	trip.RestStops = stops[trip.ID]
	if trip.RestStops == nil {
		trip.RestStops = []domain.RestStop{}
	}
	return trip, nil
}

// ListPaged returns one page of trips ordered by created_at descending.
// Rest stops for the whole page are loaded with a single query.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}
	if len(trips) == 0 {
		return trips, total, nil
	}

	ids := make([]uuid.UUID, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	stops, err := r.stopsFor(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	for i := range trips {
		trips[i].RestStops = stops[trips[i].ID]
		if trips[i].RestStops == nil {
			trips[i].RestStops = []domain.RestStop{}
		}
	}
	return trips, total, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// stopsFor loads the rest stops of the given trips keyed by trip id, each
// slice in stored position order.
func (r *pgTripRepo) stopsFor(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.RestStop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM rest_stops
		WHERE trip_id = ANY(@trip_ids)
		ORDER BY trip_id, position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return nil, fmt.Errorf("stops: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.RestStop, len(tripIDs))
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("stops: scan: %w", err)
		}
		out[s.tripID] = append(out[s.tripID], s.RestStop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stops: rows: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		routeData []byte
	)
	err := s.Scan(&t.ID, &t.CurrentLocation, &t.PickupLocation, &t.DropOffLocation,
		&t.CurrentCycleUsed, &t.TotalDistance, &t.TotalDuration, &routeData,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	if len(routeData) > 0 {
		t.RouteData = routeData
	}
	return t, nil
}

type storedStop struct {
	domain.RestStop
	tripID uuid.UUID
}

func scanStop(s scanner) (storedStop, error) {
	var (
		st       storedStop
		stopType string
	)
	err := s.Scan(&st.ID, &st.tripID, &stopType, &st.DistanceFromStart, &st.Duration, &st.Reason, &st.Location)
	if err != nil {
		return storedStop{}, err
	}
	st.Type = domain.StopType(stopType)
	return st, nil
}
