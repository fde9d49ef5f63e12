package lock

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, resourceID int, date, startTime, endTime time.Time, userID int, expiresAt time.Time) (*Lock, error)
	FindActiveByKey(ctx context.Context, resourceID int, date, startTime, now time.Time) (*Lock, error)
	FindActiveForDate(ctx context.Context, resourceID int, date, now time.Time) ([]Lock, error)
	GetByID(ctx context.Context, id int) (*Lock, error)
	TransitionStatus(ctx context.Context, id int, from, to string) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
