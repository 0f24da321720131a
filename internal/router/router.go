package router

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/handlers"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/websocket"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *websocket.Hub) *mux.Router {
	r := mux.NewRouter()

	// Middleware
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Airports
	api.HandleFunc("/airports/suggestions", h.GetSuggestions).Methods(http.MethodGet, http.MethodOptions)

	// Routes
	api.HandleFunc("/routes/search", h.SearchRoutes).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/itineraries/resolve", h.ResolveItinerary).Methods(http.MethodPost, http.MethodOptions)

	// Bookings
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings", h.GetUserBookings).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.GetBookingDetails).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete, http.MethodOptions)

	// Users
	api.HandleFunc("/users/seat-preference", h.GetSeatPreference).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/users/seat-preference", h.UpdateSeatPreference).Methods(http.MethodPut, http.MethodOptions)

	// Snapshot refresh
	api.HandleFunc("/snapshot/rebuild", h.RebuildSnapshot).Methods(http.MethodPost, http.MethodOptions)

	// WebSocket for availability updates on a route
	api.HandleFunc("/routes/{origin}/{destination}/ws", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		hub.ServeWS(w, r, vars["origin"], vars["destination"])
	})

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		log.Printf("%s %s [%s]", r.Method, r.URL.Path, requestID)
		next.ServeHTTP(w, r)
	})
}
