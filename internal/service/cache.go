package service

import (
	"sync"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
)

// bookingCache memoizes user booking histories. Lookups and the
// invalidate-on-cancel write come from concurrent requests, so every
// access goes through the mutex. There is no time-based expiry:
// entries live until a cancellation invalidates them.
type bookingCache struct {
	mu      sync.RWMutex
	entries map[string][]database.BookingSummary
}

func newBookingCache() *bookingCache {
	return &bookingCache{entries: make(map[string][]database.BookingSummary)}
}

func (c *bookingCache) Get(email string) ([]database.BookingSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bookings, ok := c.entries[email]
	return bookings, ok
}

func (c *bookingCache) Put(email string, bookings []database.BookingSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[email] = bookings
}

func (c *bookingCache) Invalidate(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, email)
}
