package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrDuplicateOccupyingBooking is returned when the partial unique
// index on (resource_id, date, start_time) over pending/confirmed rows
// rejects an insert.
var ErrDuplicateOccupyingBooking = errors.New("occupying booking already exists for slot")

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (resource_id, date, start_time, end_time, user_id, amount_cents, status, lock_id, order_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, resource_id, date, start_time, end_time, user_id, amount_cents, status, lock_id, order_ref, created_at
	`

	var created Booking
	err := r.db.GetContext(ctx, &created, query,
		b.ResourceID, b.Date, b.StartTime, b.EndTime, b.UserID, b.AmountCents, b.Status, b.LockID, b.OrderRef)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateOccupyingBooking
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, user_id, amount_cents, status, lock_id, order_ref, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) HasOccupyingBooking(ctx context.Context, resourceID int, date, startTime, endTime time.Time) (bool, error) {
	// Overlap test rather than exact start equality, so any
	// variable-length booking still blocks the windows it covers.
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE resource_id = $1 AND date = $2
			  AND status IN ('pending', 'confirmed')
			  AND start_time < $4 AND end_time > $3
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, resourceID, date, startTime, endTime)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) OccupyingForDate(ctx context.Context, resourceID int, date time.Time) ([]Booking, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, user_id, amount_cents, status, lock_id, order_ref, created_at
		FROM bookings
		WHERE resource_id = $1 AND date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY start_time ASC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, resourceID, date)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to string) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, user_id, amount_cents, status, lock_id, order_ref, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByResource(ctx context.Context, resourceID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.resource_id,
			b.date,
			b.start_time,
			b.end_time,
			b.user_id,
			b.amount_cents,
			b.status,
			b.lock_id,
			b.order_ref,
			b.created_at,
			r.sport,
			r.label AS resource_label,
			v.name AS venue_name,
			v.location AS venue_location,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN resources r ON b.resource_id = r.id
		JOIN venues v ON r.venue_id = v.id
		JOIN users u ON b.user_id = u.id
		WHERE b.resource_id = $1
		ORDER BY b.date DESC, b.start_time DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, resourceID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByVenue(ctx context.Context, venueID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.resource_id,
			b.date,
			b.start_time,
			b.end_time,
			b.user_id,
			b.amount_cents,
			b.status,
			b.lock_id,
			b.order_ref,
			b.created_at,
			r.sport,
			r.label AS resource_label,
			v.name AS venue_name,
			v.location AS venue_location,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN resources r ON b.resource_id = r.id
		JOIN venues v ON r.venue_id = v.id
		JOIN users u ON b.user_id = u.id
		WHERE v.id = $1
		ORDER BY b.date DESC, b.start_time DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, venueID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
