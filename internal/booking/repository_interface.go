package booking

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	HasOccupyingBooking(ctx context.Context, resourceID int, date, startTime, endTime time.Time) (bool, error)
	OccupyingForDate(ctx context.Context, resourceID int, date time.Time) ([]Booking, error)
	UpdateStatus(ctx context.Context, id int, from, to string) (bool, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsByResource(ctx context.Context, resourceID int) ([]BookingWithDetails, error)
	GetBookingsByVenue(ctx context.Context, venueID int) ([]BookingWithDetails, error)
}
