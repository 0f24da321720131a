package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientSeats = errors.New("not enough seats")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
)

const flightColumns = `f.flight_id, f.flight_number, f.origin, f.destination,
	       f.departure_time, f.arrival_time, f.price, f.distance_km,
	       f.available_seats, COALESCE(a.airline_name, '')`

// Repository handles all database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Snapshot Reads ---

// ActiveRoutes returns the distinct origin-destination pairs that have
// at least one flight leg with available seats. This is the snapshot
// the route graph is built from.
func (r *Repository) ActiveRoutes(ctx context.Context) ([]RoutePair, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT origin, destination
		FROM flights
		WHERE available_seats > 0
		ORDER BY origin, destination
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []RoutePair
	for rows.Next() {
		var rp RoutePair
		if err := rows.Scan(&rp.Origin, &rp.Destination); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, rp)
	}
	return routes, rows.Err()
}

// Airports returns every airport code that appears as an origin or a
// destination of any flight leg.
func (r *Repository) Airports(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT origin FROM flights
		UNION
		SELECT DISTINCT destination FROM flights
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan airport: %w", err)
		}
		airports = append(airports, code)
	}
	return airports, rows.Err()
}

// --- Live Leg Lookup ---

// LegForSegment returns a flight leg serving the exact origin and
// destination with seats currently available. When several legs serve
// the segment, the cheapest (then lowest id) wins so results are
// reproducible. Returns ErrNotFound when no such leg exists.
func (r *Repository) LegForSegment(ctx context.Context, origin, destination string) (*FlightLeg, error) {
	query := `
		SELECT ` + flightColumns + `
		FROM flights f
		LEFT JOIN airlines a ON f.airline_id = a.airline_id
		WHERE f.origin = $1 AND f.destination = $2 AND f.available_seats > 0
		ORDER BY f.price ASC, f.flight_id ASC
		LIMIT 1
	`

	var leg FlightLeg
	err := r.pool.QueryRow(ctx, query, origin, destination).Scan(
		&leg.ID, &leg.FlightNumber, &leg.Origin, &leg.Destination,
		&leg.DepartureTime, &leg.ArrivalTime, &leg.Price, &leg.DistanceKM,
		&leg.AvailableSeats, &leg.Airline,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get leg: %w", err)
	}
	return &leg, nil
}

// --- Booking Transaction ---

// CreateBooking atomically commits a reservation: every referenced leg
// is locked and verified, seats are decremented, and the user, booking,
// passenger and leg-association rows are created, all in one
// transaction. Legs are locked in ascending id order regardless of
// itinerary order, so concurrent bookings over overlapping legs cannot
// deadlock. Returns the new booking id and the post-commit availability
// of each touched leg.
func (r *Repository) CreateBooking(ctx context.Context, in BookingInput) (int64, []LegAvailability, error) {
	numPax := len(in.Passengers)
	legIDs := sortedUnique(in.LegIDs)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock and verify every leg before any write.
	for _, id := range legIDs {
		var seats int
		err := tx.QueryRow(ctx, `
			SELECT available_seats FROM flights WHERE flight_id = $1 FOR UPDATE
		`, id).Scan(&seats)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, nil, fmt.Errorf("leg %d: %w", id, ErrNotFound)
			}
			return 0, nil, fmt.Errorf("failed to lock leg %d: %w", id, err)
		}
		if seats < numPax {
			return 0, nil, fmt.Errorf("leg %d: %w", id, ErrInsufficientSeats)
		}
	}

	updated := make([]LegAvailability, 0, len(legIDs))
	for _, id := range legIDs {
		var la LegAvailability
		la.LegID = id
		err := tx.QueryRow(ctx, `
			UPDATE flights SET available_seats = available_seats - $1
			WHERE flight_id = $2
			RETURNING origin, destination, available_seats
		`, numPax, id).Scan(&la.Origin, &la.Destination, &la.AvailableSeats)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to decrement leg %d: %w", id, err)
		}
		updated = append(updated, la)
	}

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
			SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
		RETURNING user_id
	`, in.User.FirstName, in.User.LastName, in.User.Email).Scan(&userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	var bookingID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (user_id, total_price, status, travel_purpose)
		VALUES ($1, $2, $3, $4)
		RETURNING booking_id
	`, userID, in.TotalPrice, BookingStatusConfirmed, in.User.TravelPurpose).Scan(&bookingID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create booking: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range in.Passengers {
		batch.Queue(`
			INSERT INTO passengers (booking_id, first_name, last_name, age)
			VALUES ($1, $2, $3, $4)
		`, bookingID, p.FirstName, p.LastName, p.Age)
	}
	for _, id := range legIDs {
		batch.Queue(`
			INSERT INTO booking_flights (booking_id, flight_id, num_passengers)
			VALUES ($1, $2, $3)
		`, bookingID, id, numPax)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, nil, fmt.Errorf("failed to insert booking rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to commit booking: %w", err)
	}
	return bookingID, updated, nil
}

// --- Cancellation Transaction ---

// CancelBooking atomically reverses a booking's inventory effect: each
// associated leg gets back exactly the passenger count recorded at
// booking time, and the status flips to CANCELLED. Only a CONFIRMED
// booking owned by the given email can be cancelled; re-cancelling is
// rejected with ErrAlreadyCancelled. Returns the post-commit
// availability of each re-credited leg.
func (r *Repository) CancelBooking(ctx context.Context, bookingID int64, email string) ([]LegAvailability, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the booking row first so concurrent cancels serialize on
	// the status guard.
	var status BookingStatus
	err = tx.QueryRow(ctx, `
		SELECT b.status
		FROM bookings b
		JOIN users u ON b.user_id = u.user_id
		WHERE b.booking_id = $1 AND u.email = $2
		FOR UPDATE OF b
	`, bookingID, email).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}
	if status != BookingStatusConfirmed {
		return nil, ErrAlreadyCancelled
	}

	rows, err := tx.Query(ctx, `
		SELECT flight_id, num_passengers
		FROM booking_flights
		WHERE booking_id = $1
		ORDER BY flight_id ASC
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking legs: %w", err)
	}
	type legCredit struct {
		legID int64
		pax   int
	}
	var credits []legCredit
	for rows.Next() {
		var lc legCredit
		if err := rows.Scan(&lc.legID, &lc.pax); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan booking leg: %w", err)
		}
		credits = append(credits, lc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booking legs: %w", err)
	}

	updated := make([]LegAvailability, 0, len(credits))
	for _, lc := range credits {
		var la LegAvailability
		la.LegID = lc.legID
		err := tx.QueryRow(ctx, `
			UPDATE flights SET available_seats = available_seats + $1
			WHERE flight_id = $2
			RETURNING origin, destination, available_seats
		`, lc.pax, lc.legID).Scan(&la.Origin, &la.Destination, &la.AvailableSeats)
		if err != nil {
			return nil, fmt.Errorf("failed to restore seats for leg %d: %w", lc.legID, err)
		}
		updated = append(updated, la)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bookings SET status = $1 WHERE booking_id = $2
	`, BookingStatusCancelled, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return updated, nil
}

// --- Booking Reads ---

// UserBookings returns the booking history for an email, each entry
// carrying its passengers, ordered by booking id.
func (r *Repository) UserBookings(ctx context.Context, email string) ([]BookingSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.booking_id, b.booking_date, b.total_price, b.status,
		       p.first_name, p.last_name, p.age
		FROM bookings b
		JOIN users u ON b.user_id = u.user_id
		JOIN passengers p ON b.booking_id = p.booking_id
		WHERE u.email = $1
		ORDER BY b.booking_id
	`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var (
		summaries []BookingSummary
		current   *BookingSummary
	)
	for rows.Next() {
		var (
			s BookingSummary
			p Passenger
		)
		err := rows.Scan(&s.BookingID, &s.BookingDate, &s.TotalPrice, &s.Status,
			&p.FirstName, &p.LastName, &p.Age)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if current == nil || current.BookingID != s.BookingID {
			summaries = append(summaries, s)
			current = &summaries[len(summaries)-1]
		}
		current.Passengers = append(current.Passengers, p)
	}
	return summaries, rows.Err()
}

// BookingByID returns the full details of a booking: header, owning
// user, passengers and legs.
func (r *Repository) BookingByID(ctx context.Context, bookingID int64) (*BookingDetails, error) {
	var d BookingDetails
	err := r.pool.QueryRow(ctx, `
		SELECT b.booking_id, b.booking_date, b.total_price, b.status,
		       COALESCE(b.travel_purpose, ''),
		       u.first_name, u.last_name, u.email
		FROM bookings b
		JOIN users u ON b.user_id = u.user_id
		WHERE b.booking_id = $1
	`, bookingID).Scan(
		&d.BookingID, &d.BookingDate, &d.TotalPrice, &d.Status,
		&d.TravelPurpose, &d.User.FirstName, &d.User.LastName, &d.User.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT first_name, last_name, age
		FROM passengers
		WHERE booking_id = $1
		ORDER BY passenger_id
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query passengers: %w", err)
	}
	for rows.Next() {
		var p Passenger
		if err := rows.Scan(&p.FirstName, &p.LastName, &p.Age); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan passenger: %w", err)
		}
		d.Passengers = append(d.Passengers, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passengers: %w", err)
	}

	legRows, err := r.pool.Query(ctx, `
		SELECT `+flightColumns+`
		FROM booking_flights bf
		JOIN flights f ON bf.flight_id = f.flight_id
		LEFT JOIN airlines a ON f.airline_id = a.airline_id
		WHERE bf.booking_id = $1
		ORDER BY f.departure_time
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking legs: %w", err)
	}
	defer legRows.Close()
	for legRows.Next() {
		var leg FlightLeg
		err := legRows.Scan(
			&leg.ID, &leg.FlightNumber, &leg.Origin, &leg.Destination,
			&leg.DepartureTime, &leg.ArrivalTime, &leg.Price, &leg.DistanceKM,
			&leg.AvailableSeats, &leg.Airline,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking leg: %w", err)
		}
		d.Legs = append(d.Legs, leg)
	}
	return &d, legRows.Err()
}

// --- Seat Preference ---

// SeatPreference returns the stored seat preference for an email.
// Returns ErrNotFound when the user is unknown or has no preference.
func (r *Repository) SeatPreference(ctx context.Context, email string) (string, error) {
	var pref *string
	err := r.pool.QueryRow(ctx, `
		SELECT seat_pref FROM users WHERE email = $1
	`, email).Scan(&pref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get seat preference: %w", err)
	}
	if pref == nil {
		return "", ErrNotFound
	}
	return *pref, nil
}

// UpdateSeatPreference stores a seat preference for an existing user.
func (r *Repository) UpdateSeatPreference(ctx context.Context, email, pref string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET seat_pref = $1 WHERE email = $2
	`, pref, email)
	if err != nil {
		return fmt.Errorf("failed to update seat preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// sortedUnique collapses duplicate leg ids and orders them ascending,
// the fixed lock-acquisition order for the booking transaction.
func sortedUnique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
