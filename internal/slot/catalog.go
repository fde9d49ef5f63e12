package slot

import (
	"context"
	"fmt"
	"time"

	"courtbook/internal/booking"
	"courtbook/internal/lock"
)

// Operating-hours policy: every resource is bookable 06:00-22:00 in
// one-hour windows, 16 per day. Slots are derived values; only their
// occupancy lives in the database.
const (
	OpenHour  = 6
	CloseHour = 22
	WindowLen = time.Hour

	WindowsPerDay = CloseHour - OpenHour
)

// Window is one bookable slot with its occupancy overlay.
type Window struct {
	ResourceID int       `json:"resource_id"`
	Date       time.Time `json:"date"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Label      string    `json:"label"`
	IsBooked   bool      `json:"is_booked"`
	IsLocked   bool      `json:"is_locked"`
	LockedByMe bool      `json:"locked_by_me"`
	IsPast     bool      `json:"is_past"`
	Selectable bool      `json:"selectable"`
}

type LockReader interface {
	FindActiveForDate(ctx context.Context, resourceID int, date, now time.Time) ([]lock.Lock, error)
}

type BookingReader interface {
	OccupyingForDate(ctx context.Context, resourceID int, date time.Time) ([]booking.Booking, error)
}

type Catalog struct {
	locks    LockReader
	bookings BookingReader
	now      func() time.Time
}

type CatalogOption func(*Catalog)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *Catalog) {
		c.now = now
	}
}

func NewCatalog(locks LockReader, bookings BookingReader, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		locks:    locks,
		bookings: bookings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns the day's windows in chronological order with their
// occupancy flags. Read only; callers run the expiry sweep beforehand
// so stale locks don't suppress availability.
func (c *Catalog) Generate(ctx context.Context, resourceID int, date time.Time, currentUserID int) ([]Window, error) {
	now := c.now().UTC()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	occupying, err := c.bookings.OccupyingForDate(ctx, resourceID, date)
	if err != nil {
		return nil, err
	}

	active, err := c.locks.FindActiveForDate(ctx, resourceID, date, now)
	if err != nil {
		return nil, err
	}

	today := date.Equal(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))

	windows := make([]Window, 0, WindowsPerDay)
	for hour := OpenHour; hour < CloseHour; hour++ {
		start := date.Add(time.Duration(hour) * time.Hour)
		end := start.Add(WindowLen)

		w := Window{
			ResourceID: resourceID,
			Date:       date,
			StartTime:  start,
			EndTime:    end,
			Label:      fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1),
		}

		for _, b := range occupying {
			// Overlap, not exact start equality, so variable-length
			// bookings still block the windows they cover.
			if b.StartTime.Before(end) && b.EndTime.After(start) {
				w.IsBooked = true
				break
			}
		}

		for _, l := range active {
			if l.StartTime.Equal(start) {
				w.IsLocked = true
				w.LockedByMe = l.UserID == currentUserID
				break
			}
		}

		if today && hour <= now.Hour() {
			w.IsPast = true
		}

		// A holder may re-select their own locked window to resume an
		// in-flight reservation; everyone else is blocked by it.
		w.Selectable = !w.IsBooked && !w.IsPast && (!w.IsLocked || w.LockedByMe)

		windows = append(windows, w)
	}

	return windows, nil
}
