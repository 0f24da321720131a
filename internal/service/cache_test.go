package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
)

func TestBookingCache_GetPutInvalidate(t *testing.T) {
	c := newBookingCache()

	_, ok := c.Get("a@example.com")
	assert.False(t, ok)

	bookings := []database.BookingSummary{{BookingID: 1, Status: database.BookingStatusConfirmed}}
	c.Put("a@example.com", bookings)

	got, ok := c.Get("a@example.com")
	assert.True(t, ok)
	assert.Equal(t, bookings, got)

	c.Invalidate("a@example.com")
	_, ok = c.Get("a@example.com")
	assert.False(t, ok)
}

func TestBookingCache_InvalidateOnlyAffectsOneUser(t *testing.T) {
	c := newBookingCache()
	c.Put("a@example.com", []database.BookingSummary{{BookingID: 1}})
	c.Put("b@example.com", []database.BookingSummary{{BookingID: 2}})

	c.Invalidate("a@example.com")

	_, ok := c.Get("a@example.com")
	assert.False(t, ok)
	got, ok := c.Get("b@example.com")
	assert.True(t, ok)
	assert.Equal(t, int64(2), got[0].BookingID)
}

func TestBookingCache_ConcurrentAccess(t *testing.T) {
	c := newBookingCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i%5)
			c.Put(email, []database.BookingSummary{{BookingID: int64(i)}})
			c.Get(email)
			c.Invalidate(email)
		}(i)
	}
	wg.Wait()
}
