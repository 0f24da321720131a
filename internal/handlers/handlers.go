package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/service"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	bookingService service.BookingService
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService service.BookingService) *Handler {
	return &Handler{
		bookingService: bookingService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the service/datastore error taxonomy onto HTTP
// status codes. Capacity and not-found stay distinguishable.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrInsufficientSeats):
		return http.StatusConflict
	case errors.Is(err, database.ErrAlreadyCancelled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSuggestions handles GET /api/airports/suggestions?prefix=
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	suggestions := h.bookingService.Suggestions(prefix)
	if suggestions == nil {
		suggestions = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// SearchRoutes handles GET /api/routes/search?origin=&destination=&purpose=
func (h *Handler) SearchRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.bookingService.SearchRoutes(r.Context(), q.Get("origin"), q.Get("destination"), q.Get("purpose"))
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ResolveItineraryRequest is the body of POST /api/itineraries/resolve
type ResolveItineraryRequest struct {
	Route []string `json:"route"`
}

// ResolveItinerary handles POST /api/itineraries/resolve
func (h *Handler) ResolveItinerary(w http.ResponseWriter, r *http.Request) {
	var req ResolveItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Route) < 2 {
		respondError(w, http.StatusBadRequest, "Route must contain at least two airports")
		return
	}

	itinerary, err := h.bookingService.ResolveItinerary(r.Context(), req.Route)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, itinerary)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	// Validate request
	if req.User.Email == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Contact email is required"})
		return
	}
	if len(req.Passengers) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "At least one passenger is required"})
		return
	}
	if len(req.LegIDs) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "At least one flight leg is required"})
		return
	}

	result, err := h.bookingService.CreateBooking(r.Context(), req)
	if err != nil {
		// Booking failures keep the {message} surface: the id is
		// simply absent.
		respondJSON(w, statusForError(err), map[string]string{"message": err.Error()})
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// GetUserBookings handles GET /api/bookings?email=
func (h *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	bookings, source, err := h.bookingService.UserBookings(r.Context(), email)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	if bookings == nil {
		bookings = []database.BookingSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"source":   source,
	})
}

// GetBookingDetails handles GET /api/bookings/{id}
func (h *Handler) GetBookingDetails(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	details, err := h.bookingService.BookingDetails(r.Context(), bookingID)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// CancelBooking handles DELETE /api/bookings/{id}?email=
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}
	email := r.URL.Query().Get("email")

	if err := h.bookingService.CancelBooking(r.Context(), bookingID, email); err != nil {
		respondJSON(w, statusForError(err), map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetSeatPreference handles GET /api/users/seat-preference?email=
func (h *Handler) GetSeatPreference(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	pref := h.bookingService.SeatPreference(r.Context(), email)
	respondJSON(w, http.StatusOK, map[string]string{"seatPreference": pref})
}

// UpdateSeatPreferenceRequest is the body of PUT /api/users/seat-preference
type UpdateSeatPreferenceRequest struct {
	Email          string `json:"email"`
	SeatPreference string `json:"seatPreference"`
}

// UpdateSeatPreference handles PUT /api/users/seat-preference
func (h *Handler) UpdateSeatPreference(w http.ResponseWriter, r *http.Request) {
	var req UpdateSeatPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.bookingService.UpdateSeatPreference(r.Context(), req.Email, req.SeatPreference); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Seat preference updated"})
}

// RebuildSnapshot handles POST /api/snapshot/rebuild
func (h *Handler) RebuildSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingService.RebuildSnapshot(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Snapshot rebuilt"})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
