package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/service"
)

// MockBookingService is a mock implementation of service.BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Suggestions(prefix string) []string {
	args := m.Called(prefix)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockBookingService) SearchRoutes(ctx context.Context, origin, destination, purpose string) (*service.SearchResult, error) {
	args := m.Called(ctx, origin, destination, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockBookingService) ResolveItinerary(ctx context.Context, route []string) (*service.Itinerary, error) {
	args := m.Called(ctx, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Itinerary), args.Error(1)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*service.BookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingResult), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID int64, email string) error {
	args := m.Called(ctx, bookingID, email)
	return args.Error(0)
}

func (m *MockBookingService) UserBookings(ctx context.Context, email string) ([]database.BookingSummary, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]database.BookingSummary), args.String(1), args.Error(2)
}

func (m *MockBookingService) BookingDetails(ctx context.Context, bookingID int64) (*database.BookingDetails, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.BookingDetails), args.Error(1)
}

func (m *MockBookingService) SeatPreference(ctx context.Context, email string) string {
	args := m.Called(ctx, email)
	return args.String(0)
}

func (m *MockBookingService) UpdateSeatPreference(ctx context.Context, email, pref string) error {
	args := m.Called(ctx, email, pref)
	return args.Error(0)
}

func (m *MockBookingService) RebuildSnapshot(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
