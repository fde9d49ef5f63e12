package lock

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrDuplicateActiveLock is returned when the partial unique index on
// (resource_id, date, start_time) WHERE status = 'active' rejects an
// insert. This is the authoritative conflict signal for racing
// acquisitions, not the pre-check.
var ErrDuplicateActiveLock = errors.New("active lock already exists for slot")

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, resourceID int, date, startTime, endTime time.Time, userID int, expiresAt time.Time) (*Lock, error) {
	query := `
		INSERT INTO slot_locks (resource_id, date, start_time, end_time, user_id, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, 'active', $6)
		RETURNING id, resource_id, date, start_time, end_time, user_id, status, expires_at, created_at
	`

	var l Lock
	err := r.db.GetContext(ctx, &l, query, resourceID, date, startTime, endTime, userID, expiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateActiveLock
		}
		return nil, err
	}

	return &l, nil
}

func (r *repository) FindActiveByKey(ctx context.Context, resourceID int, date, startTime, now time.Time) (*Lock, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, user_id, status, expires_at, created_at
		FROM slot_locks
		WHERE resource_id = $1 AND date = $2 AND start_time = $3
		  AND status = 'active' AND expires_at > $4
	`

	var l Lock
	err := r.db.GetContext(ctx, &l, query, resourceID, date, startTime, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &l, nil
}

func (r *repository) FindActiveForDate(ctx context.Context, resourceID int, date, now time.Time) ([]Lock, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, user_id, status, expires_at, created_at
		FROM slot_locks
		WHERE resource_id = $1 AND date = $2
		  AND status = 'active' AND expires_at > $3
		ORDER BY start_time ASC
	`

	var locks []Lock
	err := r.db.SelectContext(ctx, &locks, query, resourceID, date, now)
	if err != nil {
		return nil, err
	}

	return locks, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Lock, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, user_id, status, expires_at, created_at
		FROM slot_locks
		WHERE id = $1
	`

	var l Lock
	err := r.db.GetContext(ctx, &l, query, id)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// TransitionStatus performs a conditional state change and reports
// whether a row actually moved. A false return means the lock was not
// in the expected source state.
func (r *repository) TransitionStatus(ctx context.Context, id int, from, to string) (bool, error) {
	query := `
		UPDATE slot_locks
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

func (r *repository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE slot_locks
		SET status = 'expired'
		WHERE status = 'active' AND expires_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
