package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/routing"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/trie"
)

// ErrValidation marks requests rejected before touching the datastore.
var ErrValidation = errors.New("validation failed")

// DefaultSeatPreference is the cosmetic fallback when no stored
// preference can be read.
const DefaultSeatPreference = "Window"

// Travel purposes drive the search algorithm choice.
const (
	PurposeBusiness    = "Business"
	PurposeTourism     = "Tourism"
	PurposeFamilyVisit = "Family Visit"
	PurposeEducation   = "Education"
)

// SearchResult is what a route search returns: the direct option when
// one exists, and a connecting itinerary chosen by travel purpose.
type SearchResult struct {
	Direct     *database.FlightLeg `json:"direct,omitempty"`
	Connecting *ConnectingOption   `json:"connecting,omitempty"`
}

// ConnectingOption is a resolved multi-leg itinerary.
type ConnectingOption struct {
	Route      []string             `json:"route"`
	Legs       []database.FlightLeg `json:"legs"`
	TotalPrice float64              `json:"totalPrice"`
	Algorithm  string               `json:"algorithm"`
}

// Itinerary is the result of resolving an airport sequence against
// live inventory. When OK is false the leg list is empty and the total
// is zero; a partial result is never returned.
type Itinerary struct {
	Legs       []database.FlightLeg `json:"legs"`
	TotalPrice float64              `json:"totalPrice"`
	OK         bool                 `json:"ok"`
}

// CreateBookingRequest carries everything needed to commit a booking.
type CreateBookingRequest struct {
	User       database.UserDetails `json:"user"`
	Passengers []database.Passenger `json:"passengers"`
	LegIDs     []int64              `json:"flightIds"`
	TotalPrice float64              `json:"totalPrice"`
}

// BookingResult is the booking surface: an id and a human-readable
// message.
type BookingResult struct {
	BookingID int64  `json:"bookingId"`
	Message   string `json:"message"`
}

// BookingService defines the reservation engine's operations
type BookingService interface {
	Suggestions(prefix string) []string
	SearchRoutes(ctx context.Context, origin, destination, purpose string) (*SearchResult, error)
	ResolveItinerary(ctx context.Context, route []string) (*Itinerary, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error)
	CancelBooking(ctx context.Context, bookingID int64, email string) error
	UserBookings(ctx context.Context, email string) ([]database.BookingSummary, string, error)
	BookingDetails(ctx context.Context, bookingID int64) (*database.BookingDetails, error)
	SeatPreference(ctx context.Context, email string) string
	UpdateSeatPreference(ctx context.Context, email, pref string) error
	RebuildSnapshot(ctx context.Context) error
}

// Store is the datastore collaborator the service depends on.
type Store interface {
	ActiveRoutes(ctx context.Context) ([]database.RoutePair, error)
	Airports(ctx context.Context) ([]string, error)
	LegForSegment(ctx context.Context, origin, destination string) (*database.FlightLeg, error)
	CreateBooking(ctx context.Context, in database.BookingInput) (int64, []database.LegAvailability, error)
	CancelBooking(ctx context.Context, bookingID int64, email string) ([]database.LegAvailability, error)
	UserBookings(ctx context.Context, email string) ([]database.BookingSummary, error)
	BookingByID(ctx context.Context, bookingID int64) (*database.BookingDetails, error)
	SeatPreference(ctx context.Context, email string) (string, error)
	UpdateSeatPreference(ctx context.Context, email, pref string) error
}

// Notifier receives post-commit availability changes. Implemented by
// the websocket hub; nil disables notifications.
type Notifier interface {
	NotifyAvailability(updates []database.LegAvailability)
}

// Service implements BookingService on top of a Store.
type Service struct {
	store    Store
	notifier Notifier
	opts     routing.CheapestOptions
	cache    *bookingCache

	// graph and index are point-in-time snapshots, read-only once
	// built; RebuildSnapshot replaces them wholesale under mu.
	mu    sync.RWMutex
	graph *routing.Graph
	index *trie.Index
}

// NewService creates a Service. Call RebuildSnapshot before serving
// search traffic.
func NewService(store Store, notifier Notifier, opts routing.CheapestOptions) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		opts:     opts,
		cache:    newBookingCache(),
		graph:    routing.NewGraph(nil),
		index:    trie.NewIndex(),
	}
}

// RebuildSnapshot re-reads active routes and airports from the
// datastore and atomically swaps in a freshly built graph and airport
// index. Readers never observe a half-built structure.
func (s *Service) RebuildSnapshot(ctx context.Context) error {
	pairs, err := s.store.ActiveRoutes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}
	airports, err := s.store.Airports(ctx)
	if err != nil {
		return fmt.Errorf("failed to load airports: %w", err)
	}

	routes := make([]routing.Route, len(pairs))
	for i, p := range pairs {
		routes[i] = routing.Route{Origin: p.Origin, Destination: p.Destination}
	}
	graph := routing.NewGraph(routes)

	index := trie.NewIndex()
	for _, code := range airports {
		index.Insert(code)
	}

	s.mu.Lock()
	s.graph = graph
	s.index = index
	s.mu.Unlock()
	return nil
}

func (s *Service) snapshot() (*routing.Graph, *trie.Index) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.index
}

// Suggestions returns airport codes having the given prefix, in the
// index's insertion order.
func (s *Service) Suggestions(prefix string) []string {
	_, index := s.snapshot()
	return index.Suggestions(strings.ToUpper(strings.TrimSpace(prefix)))
}

// SearchRoutes finds flight options between two airports. The direct
// leg (if any) is always included; the connecting itinerary is chosen
// by travel purpose: shortest-hop for business and family visits,
// bounded-cheapest (with a depth-first fallback) for tourism and
// education. Path results are structural hints only and are
// re-validated against live inventory before being returned.
func (s *Service) SearchRoutes(ctx context.Context, origin, destination, purpose string) (*SearchResult, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrValidation)
	}
	if origin == destination {
		return nil, fmt.Errorf("%w: origin and destination cannot be the same", ErrValidation)
	}

	result := &SearchResult{}

	direct, err := s.store.LegForSegment(ctx, origin, destination)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		result.Direct = direct
	}

	graph, _ := s.snapshot()

	var (
		route     []string
		algorithm string
	)
	switch purpose {
	case PurposeTourism, PurposeEducation:
		route, _, err = graph.CheapestRoute(ctx, origin, destination, s.resolveTotal, s.opts)
		if err != nil {
			return nil, err
		}
		algorithm = "bounded-cheapest"
		if route == nil {
			route = graph.AnyPath(origin, destination)
			algorithm = "depth-first fallback"
		}
	default:
		// Business, Family Visit and anything unrecognized.
		route = graph.ShortestPath(origin, destination)
		algorithm = "shortest-hop"
	}

	if len(route) > 2 {
		itinerary, err := s.ResolveItinerary(ctx, route)
		if err != nil {
			return nil, err
		}
		if itinerary.OK {
			result.Connecting = &ConnectingOption{
				Route:      route,
				Legs:       itinerary.Legs,
				TotalPrice: itinerary.TotalPrice,
				Algorithm:  algorithm,
			}
		}
	}

	return result, nil
}

// resolveTotal adapts ResolveItinerary to the pathfinder's callback.
func (s *Service) resolveTotal(ctx context.Context, route []string) (float64, bool, error) {
	itinerary, err := s.ResolveItinerary(ctx, route)
	if err != nil {
		return 0, false, err
	}
	return itinerary.TotalPrice, itinerary.OK, nil
}

// ResolveItinerary turns an ordered airport sequence into concrete
// flight legs with live availability. Read-only: a resolved itinerary
// can still fail at booking time, which the booking transaction
// re-checks.
func (s *Service) ResolveItinerary(ctx context.Context, route []string) (*Itinerary, error) {
	if len(route) < 2 {
		return nil, fmt.Errorf("%w: route must contain at least two airports", ErrValidation)
	}

	legs := make([]database.FlightLeg, 0, len(route)-1)
	var total float64
	for i := 0; i < len(route)-1; i++ {
		leg, err := s.store.LegForSegment(ctx, route[i], route[i+1])
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return &Itinerary{Legs: []database.FlightLeg{}}, nil
			}
			return nil, err
		}
		legs = append(legs, *leg)
		total += leg.Price
	}

	return &Itinerary{Legs: legs, TotalPrice: total, OK: true}, nil
}

// CreateBooking validates the request and commits the reservation
// atomically through the store. On success, watchers of the affected
// routes are notified of the new seat counts.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	if req.User.FirstName == "" || req.User.LastName == "" || req.User.Email == "" {
		return nil, fmt.Errorf("%w: contact name and email are required", ErrValidation)
	}
	if len(req.Passengers) == 0 {
		return nil, fmt.Errorf("%w: at least one passenger is required", ErrValidation)
	}
	if len(req.LegIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one flight leg is required", ErrValidation)
	}
	if req.TotalPrice < 0 {
		return nil, fmt.Errorf("%w: total price cannot be negative", ErrValidation)
	}

	bookingID, updated, err := s.store.CreateBooking(ctx, database.BookingInput{
		User:       req.User,
		Passengers: req.Passengers,
		LegIDs:     req.LegIDs,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return nil, err
	}

	s.notifyAvailability(updated)
	return &BookingResult{BookingID: bookingID, Message: "Booking successful!"}, nil
}

// CancelBooking reverses a booking's inventory effect and invalidates
// the owner's cached booking list.
func (s *Service) CancelBooking(ctx context.Context, bookingID int64, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	updated, err := s.store.CancelBooking(ctx, bookingID, email)
	if err != nil {
		return err
	}

	s.cache.Invalidate(email)
	s.notifyAvailability(updated)
	return nil
}

// UserBookings returns a user's booking history and where it came
// from ("cache" or "datastore"). The cached copy is served until a
// cancellation invalidates it.
func (s *Service) UserBookings(ctx context.Context, email string) ([]database.BookingSummary, string, error) {
	if email == "" {
		return nil, "", fmt.Errorf("%w: email is required", ErrValidation)
	}

	if bookings, ok := s.cache.Get(email); ok {
		return bookings, "cache", nil
	}

	bookings, err := s.store.UserBookings(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if len(bookings) > 0 {
		s.cache.Put(email, bookings)
	}
	return bookings, "datastore", nil
}

// BookingDetails returns the full view of one booking.
func (s *Service) BookingDetails(ctx context.Context, bookingID int64) (*database.BookingDetails, error) {
	return s.store.BookingByID(ctx, bookingID)
}

// SeatPreference returns the stored seat preference, falling back to
// the default on any failure. This is the only cosmetic lookup allowed
// to swallow datastore errors.
func (s *Service) SeatPreference(ctx context.Context, email string) string {
	pref, err := s.store.SeatPreference(ctx, email)
	if err != nil {
		return DefaultSeatPreference
	}
	return pref
}

// UpdateSeatPreference stores a seat preference for a known user.
func (s *Service) UpdateSeatPreference(ctx context.Context, email, pref string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	switch pref {
	case "Window", "Aisle", "Middle":
	default:
		return fmt.Errorf("%w: unknown seat preference %q", ErrValidation, pref)
	}
	return s.store.UpdateSeatPreference(ctx, email, pref)
}

func (s *Service) notifyAvailability(updates []database.LegAvailability) {
	if s.notifier == nil || len(updates) == 0 {
		return
	}
	s.notifier.NotifyAvailability(updates)
}
