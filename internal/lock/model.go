package lock

import "time"

const (
	StatusActive    = "active"
	StatusReleased  = "released"
	StatusConverted = "converted"
	StatusExpired   = "expired"
)

// TTL is how long a lock shields a slot while the holder completes
// payment. Long enough for a UPI flow, short enough to not starve
// other customers.
const TTL = 10 * time.Minute

type Lock struct {
	ID         int       `db:"id" json:"id"`
	ResourceID int       `db:"resource_id" json:"resource_id"`
	Date       time.Time `db:"date" json:"date"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	UserID     int       `db:"user_id" json:"user_id"`
	Status     string    `db:"status" json:"status"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Remaining is the countdown shown to the holder. Purely derived,
// never stored; reaching zero does not itself mutate anything.
func (l *Lock) Remaining(now time.Time) time.Duration {
	d := l.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

type AcquireRequest struct {
	ResourceID int    `json:"resource_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

type LockResponse struct {
	Lock             *Lock `json:"lock"`
	RemainingSeconds int64 `json:"remaining_seconds"`
}
