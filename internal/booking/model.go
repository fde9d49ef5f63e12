package booking

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// OccupyingStatuses are the booking states that count as holding the
// slot for availability purposes.
var OccupyingStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID          int       `db:"id" json:"id"`
	ResourceID  int       `db:"resource_id" json:"resource_id"`
	Date        time.Time `db:"date" json:"date"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	UserID      int       `db:"user_id" json:"user_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Status      string    `db:"status" json:"status"`
	LockID      *int      `db:"lock_id" json:"lock_id,omitempty"`
	OrderRef    *string   `db:"order_ref" json:"order_ref,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	Sport         string `db:"sport" json:"sport"`
	ResourceLabel string `db:"resource_label" json:"resource_label"`
	VenueName     string `db:"venue_name" json:"venue_name"`
	VenueLocation string `db:"venue_location" json:"venue_location"`
	UserName      string `db:"user_name" json:"user_name"`
	UserEmail     string `db:"user_email" json:"user_email"`
}

type FinalizeRequest struct {
	LockID int `json:"lock_id" binding:"required"`
}

type ConfirmRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type FinalizeResponse struct {
	Booking  *Booking `json:"booking"`
	OrderRef string   `json:"order_ref,omitempty"`
}
