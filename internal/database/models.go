package database

import "time"

// FlightLeg represents one scheduled flight between two airports with
// its own price and seat inventory.
type FlightLeg struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flightNumber"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price"`
	DistanceKM     float64   `json:"distanceKm"`
	AvailableSeats int       `json:"availableSeats"`
	Airline        string    `json:"airline,omitempty"`
}

// RoutePair is a distinct origin-destination pair from the snapshot of
// flights with positive capacity.
type RoutePair struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// UserDetails is the booking's owning contact.
type UserDetails struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	TravelPurpose string `json:"travelPurpose,omitempty"`
}

// Passenger belongs to exactly one booking and is immutable after
// creation.
type Passenger struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
}

// BookingInput is everything the booking transaction needs to commit a
// reservation.
type BookingInput struct {
	User       UserDetails
	Passengers []Passenger
	LegIDs     []int64
	TotalPrice float64
}

// LegAvailability is the post-commit seat count for a touched leg,
// used to notify watchers of the affected routes.
type LegAvailability struct {
	LegID          int64  `json:"legId"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	AvailableSeats int    `json:"availableSeats"`
}

// BookingSummary is one entry of a user's booking history.
type BookingSummary struct {
	BookingID   int64         `json:"bookingId"`
	BookingDate time.Time     `json:"bookingDate"`
	TotalPrice  float64       `json:"totalPrice"`
	Status      BookingStatus `json:"status"`
	Passengers  []Passenger   `json:"passengers"`
}

// BookingDetails is the full view of a single booking.
type BookingDetails struct {
	BookingID     int64         `json:"bookingId"`
	BookingDate   time.Time     `json:"bookingDate"`
	TotalPrice    float64       `json:"totalPrice"`
	Status        BookingStatus `json:"status"`
	TravelPurpose string        `json:"travelPurpose,omitempty"`
	User          UserDetails   `json:"user"`
	Passengers    []Passenger   `json:"passengers"`
	Legs          []FlightLeg   `json:"legs"`
}
