package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/internal/logger"
	"courtbook/internal/metrics"
)

var (
	ErrMissingSlotInfo     = errors.New("slot information is incomplete")
	ErrInvalidSlotRange    = errors.New("slot end time must follow start time")
	ErrSlotLockedByAnother = errors.New("slot is locked by another user")
	ErrSlotAlreadyBooked   = errors.New("slot is already booked")
	ErrLockNotFound        = errors.New("lock not found")
	ErrNotLockHolder       = errors.New("lock belongs to another user")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// BookingChecker reports whether an occupying booking overlaps the
// given window. Implemented by the booking repository; declared here
// to keep the dependency pointing outward.
type BookingChecker interface {
	HasOccupyingBooking(ctx context.Context, resourceID int, date, startTime, endTime time.Time) (bool, error)
}

// Notifier receives best-effort slot change events.
type Notifier interface {
	SlotChanged(ctx context.Context, resourceID int, date time.Time)
}

type Service interface {
	Acquire(ctx context.Context, userID int, req AcquireRequest) (*Lock, error)
	Release(ctx context.Context, userID, lockID int) error
	Get(ctx context.Context, userID, lockID int) (*Lock, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	bookings BookingChecker
	notifier Notifier
	now      func() time.Time
}

type ServiceOption func(*service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

func NewService(repo Repository, bookings BookingChecker, notifier Notifier, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		bookings: bookings,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseSlot normalizes the wire representation of a slot into UTC
// timestamps anchored to the requested date.
func ParseSlot(dateStr, startStr, endStr string) (date, startTime, endTime time.Time, err error) {
	date, err = time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrMissingSlotInfo
	}

	start, err := time.ParseInLocation(TimeLayout, startStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrMissingSlotInfo
	}

	end, err := time.ParseInLocation(TimeLayout, endStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrMissingSlotInfo
	}

	startTime = time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	endTime = time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, time.UTC)
	return date, startTime, endTime, nil
}

func (s *service) Acquire(ctx context.Context, userID int, req AcquireRequest) (*Lock, error) {
	if req.ResourceID == 0 || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return nil, ErrMissingSlotInfo
	}

	date, startTime, endTime, err := ParseSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if !endTime.After(startTime) {
		return nil, ErrInvalidSlotRange
	}

	// Reclaim stale holds first so the checks below see accurate state.
	if _, err := s.SweepExpired(ctx); err != nil {
		return nil, fmt.Errorf("sweep before acquire: %w", err)
	}

	now := s.now()

	existing, err := s.repo.FindActiveByKey(ctx, req.ResourceID, date, startTime, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserID == userID {
			// Idempotent re-acquisition: same lock, expiry untouched,
			// so a refresh never costs the holder their place.
			return existing, nil
		}
		metrics.RecordLockAcquisition("conflict")
		return nil, ErrSlotLockedByAnother
	}

	booked, err := s.bookings.HasOccupyingBooking(ctx, req.ResourceID, date, startTime, endTime)
	if err != nil {
		return nil, err
	}
	if booked {
		metrics.RecordLockAcquisition("already_booked")
		return nil, ErrSlotAlreadyBooked
	}

	l, err := s.repo.Insert(ctx, req.ResourceID, date, startTime, endTime, userID, now.Add(TTL))
	if err != nil {
		if errors.Is(err, ErrDuplicateActiveLock) {
			// Another acquisition won between the pre-check and the
			// insert; the unique index is the source of truth.
			metrics.RecordLockAcquisition("conflict")
			return nil, ErrSlotLockedByAnother
		}
		metrics.RecordLockAcquisition("error")
		return nil, err
	}

	metrics.RecordLockAcquisition("acquired")
	s.notifySlotChanged(ctx, l.ResourceID, l.Date)

	return l, nil
}

func (s *service) Release(ctx context.Context, userID, lockID int) error {
	l, err := s.repo.GetByID(ctx, lockID)
	if err != nil {
		return ErrLockNotFound
	}

	if l.UserID != userID {
		return ErrNotLockHolder
	}

	moved, err := s.repo.TransitionStatus(ctx, lockID, StatusActive, StatusReleased)
	if err != nil {
		return err
	}

	// Release is best effort: a lock that already expired or converted
	// is left alone.
	if moved {
		s.notifySlotChanged(ctx, l.ResourceID, l.Date)
	}

	return nil
}

func (s *service) Get(ctx context.Context, userID, lockID int) (*Lock, error) {
	l, err := s.repo.GetByID(ctx, lockID)
	if err != nil {
		return nil, ErrLockNotFound
	}

	if l.UserID != userID {
		return nil, ErrNotLockHolder
	}

	return l, nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	reclaimed, err := s.repo.SweepExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	metrics.RecordSweep(reclaimed)
	if reclaimed > 0 {
		logger.Infof("Sweeper reclaimed %d expired slot locks", reclaimed)
	}

	return reclaimed, nil
}

func (s *service) notifySlotChanged(ctx context.Context, resourceID int, date time.Time) {
	if s.notifier != nil {
		s.notifier.SlotChanged(ctx, resourceID, date)
	}
}
