package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/routing"
)

// fakeStore is an in-memory Store with the datastore's transactional
// semantics: the capacity check and the decrement happen under one
// lock, all-or-nothing. It exists to exercise the booking and
// cancellation invariants through the service without a database.
type fakeStore struct {
	mu       sync.Mutex
	seats    map[int64]int
	routes   map[int64]database.RoutePair
	bookings map[int64]*fakeBooking
	nextID   int64
}

type fakeBooking struct {
	email  string
	status database.BookingStatus
	legs   map[int64]int // legID -> passengers deducted
}

func newFakeStore(seats map[int64]int) *fakeStore {
	routes := make(map[int64]database.RoutePair, len(seats))
	for id := range seats {
		routes[id] = database.RoutePair{Origin: "A", Destination: "B"}
	}
	return &fakeStore{
		seats:    seats,
		routes:   routes,
		bookings: make(map[int64]*fakeBooking),
	}
}

func (f *fakeStore) CreateBooking(_ context.Context, in database.BookingInput) (int64, []database.LegAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	numPax := len(in.Passengers)
	unique := make(map[int64]struct{})
	for _, id := range in.LegIDs {
		unique[id] = struct{}{}
	}

	for id := range unique {
		seats, ok := f.seats[id]
		if !ok {
			return 0, nil, database.ErrNotFound
		}
		if seats < numPax {
			return 0, nil, database.ErrInsufficientSeats
		}
	}

	booking := &fakeBooking{
		email:  in.User.Email,
		status: database.BookingStatusConfirmed,
		legs:   make(map[int64]int),
	}
	var updates []database.LegAvailability
	for id := range unique {
		f.seats[id] -= numPax
		booking.legs[id] = numPax
		rp := f.routes[id]
		updates = append(updates, database.LegAvailability{
			LegID: id, Origin: rp.Origin, Destination: rp.Destination,
			AvailableSeats: f.seats[id],
		})
	}

	f.nextID++
	f.bookings[f.nextID] = booking
	return f.nextID, updates, nil
}

func (f *fakeStore) CancelBooking(_ context.Context, bookingID int64, email string) ([]database.LegAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok || booking.email != email {
		return nil, database.ErrNotFound
	}
	if booking.status != database.BookingStatusConfirmed {
		return nil, database.ErrAlreadyCancelled
	}

	var updates []database.LegAvailability
	for id, pax := range booking.legs {
		f.seats[id] += pax
		rp := f.routes[id]
		updates = append(updates, database.LegAvailability{
			LegID: id, Origin: rp.Origin, Destination: rp.Destination,
			AvailableSeats: f.seats[id],
		})
	}
	booking.status = database.BookingStatusCancelled
	return updates, nil
}

func (f *fakeStore) availableSeats(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seats[id]
}

// Unused Store methods.
func (f *fakeStore) ActiveRoutes(context.Context) ([]database.RoutePair, error) { return nil, nil }
func (f *fakeStore) Airports(context.Context) ([]string, error)                 { return nil, nil }
func (f *fakeStore) LegForSegment(context.Context, string, string) (*database.FlightLeg, error) {
	return nil, database.ErrNotFound
}
func (f *fakeStore) UserBookings(context.Context, string) ([]database.BookingSummary, error) {
	return nil, nil
}
func (f *fakeStore) BookingByID(context.Context, int64) (*database.BookingDetails, error) {
	return nil, database.ErrNotFound
}
func (f *fakeStore) SeatPreference(context.Context, string) (string, error) {
	return "", database.ErrNotFound
}
func (f *fakeStore) UpdateSeatPreference(context.Context, string, string) error { return nil }

func bookingRequest(email string, pax int, legIDs ...int64) CreateBookingRequest {
	passengers := make([]database.Passenger, pax)
	for i := range passengers {
		passengers[i] = database.Passenger{FirstName: "P", LastName: "Q", Age: 30 + i}
	}
	return CreateBookingRequest{
		User:       database.UserDetails{FirstName: "Asha", LastName: "Rao", Email: email},
		Passengers: passengers,
		LegIDs:     legIDs,
		TotalPrice: 100,
	}
}

func TestBooking_ConcurrentOverlappingNeverOversells(t *testing.T) {
	// Leg 1 has 5 seats; two concurrent bookings want 3 each. Exactly
	// one may win, and seats must never go negative.
	store := newFakeStore(map[int64]int{1: 5})
	s := NewService(store, nil, routing.CheapestOptions{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateBooking(context.Background(), bookingRequest("u@example.com", 3, 1))
		}(i)
	}
	wg.Wait()

	var wins, capacityFailures int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, database.ErrInsufficientSeats):
			capacityFailures++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, capacityFailures)
	assert.Equal(t, 2, store.availableSeats(1))
}

func TestBooking_DisjointLegsBothSucceed(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 3, 2: 3})
	s := NewService(store, nil, routing.CheapestOptions{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.CreateBooking(context.Background(), bookingRequest("a@example.com", 2, 1))
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.CreateBooking(context.Background(), bookingRequest("b@example.com", 2, 2))
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, store.availableSeats(1))
	assert.Equal(t, 1, store.availableSeats(2))
}

func TestCancellation_RestoresExactlyWhatWasDeducted(t *testing.T) {
	store := newFakeStore(map[int64]int{10: 8, 11: 9})
	s := NewService(store, nil, routing.CheapestOptions{})

	result, err := s.CreateBooking(context.Background(), bookingRequest("asha@example.com", 3, 10, 11))
	require.NoError(t, err)
	assert.Equal(t, 5, store.availableSeats(10))
	assert.Equal(t, 6, store.availableSeats(11))

	require.NoError(t, s.CancelBooking(context.Background(), result.BookingID, "asha@example.com"))
	assert.Equal(t, 8, store.availableSeats(10))
	assert.Equal(t, 9, store.availableSeats(11))
	assert.Equal(t, database.BookingStatusCancelled, store.bookings[result.BookingID].status)
}

func TestCancellation_DoubleCancelDoesNotRecreditTwice(t *testing.T) {
	store := newFakeStore(map[int64]int{10: 8})
	s := NewService(store, nil, routing.CheapestOptions{})

	result, err := s.CreateBooking(context.Background(), bookingRequest("asha@example.com", 2, 10))
	require.NoError(t, err)
	require.NoError(t, s.CancelBooking(context.Background(), result.BookingID, "asha@example.com"))

	err = s.CancelBooking(context.Background(), result.BookingID, "asha@example.com")
	assert.ErrorIs(t, err, database.ErrAlreadyCancelled)
	assert.Equal(t, 8, store.availableSeats(10))
}

func TestCancellation_WrongOwnerRejected(t *testing.T) {
	store := newFakeStore(map[int64]int{10: 8})
	s := NewService(store, nil, routing.CheapestOptions{})

	result, err := s.CreateBooking(context.Background(), bookingRequest("asha@example.com", 2, 10))
	require.NoError(t, err)

	err = s.CancelBooking(context.Background(), result.BookingID, "other@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, 6, store.availableSeats(10))
}
