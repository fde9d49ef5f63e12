package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/internal/auth"
	"courtbook/internal/lock"
	"courtbook/internal/logger"
	"courtbook/internal/metrics"
	"courtbook/internal/payment"
	"courtbook/internal/user"
	"courtbook/internal/venue"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrLockNotFound       = errors.New("lock not found")
	ErrLockNotActive      = errors.New("lock is not active")
	ErrLockExpired        = errors.New("lock has expired")
	ErrLockHolderMismatch = errors.New("lock belongs to another user")
	ErrSlotTaken          = errors.New("slot is already booked")
	ErrNotBookingOwner    = errors.New("booking belongs to another user")
	ErrNotCancellable     = errors.New("booking cannot be cancelled")
	ErrNotPending         = errors.New("booking is not awaiting payment")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrNoOrder            = errors.New("booking has no payment order")
)

// Gateway is the slice of the payment client the finalizer needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string, notes map[string]string) (*payment.Order, error)
	VerifySignature(orderRef, paymentID, signature string) bool
}

// Mailer sends transactional email, best effort.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to, name, what, when string) error
	SendBookingCancellation(ctx context.Context, to, name, what, when string) error
}

type Notifier interface {
	SlotChanged(ctx context.Context, resourceID int, date time.Time)
}

type Service interface {
	Finalize(ctx context.Context, userID int, req FinalizeRequest) (*Booking, error)
	Confirm(ctx context.Context, userID, bookingID int, req ConfirmRequest) (*Booking, error)
	Cancel(ctx context.Context, callerID int, callerRole string, bookingID int) error
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsByResource(ctx context.Context, resourceID int) ([]BookingWithDetails, error)
	GetBookingsByVenue(ctx context.Context, venueID int) ([]BookingWithDetails, error)
}

type service struct {
	repo      Repository
	lockRepo  lock.Repository
	venueRepo venue.Repository
	userRepo  user.Repository
	gateway   Gateway
	mailer    Mailer
	notifier  Notifier
	now       func() time.Time
}

type ServiceOption func(*service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

func NewService(
	repo Repository,
	lockRepo lock.Repository,
	venueRepo venue.Repository,
	userRepo user.Repository,
	gateway Gateway,
	mailer Mailer,
	notifier Notifier,
	opts ...ServiceOption,
) Service {
	s := &service{
		repo:      repo,
		lockRepo:  lockRepo,
		venueRepo: venueRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		mailer:    mailer,
		notifier:  notifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Finalize converts a held lock into a durable booking once the
// customer proceeds to payment. The lock must still be the active hold
// for its slot; a stale lock id is rejected rather than silently
// reconciled. If the booking insert fails the lock is left untouched
// so the holder can retry within their remaining window.
func (s *service) Finalize(ctx context.Context, userID int, req FinalizeRequest) (*Booking, error) {
	l, err := s.lockRepo.GetByID(ctx, req.LockID)
	if err != nil {
		return nil, ErrLockNotFound
	}

	if l.UserID != userID {
		return nil, ErrLockHolderMismatch
	}

	if l.Status != lock.StatusActive {
		return nil, ErrLockNotActive
	}

	now := s.now()
	if now.After(l.ExpiresAt) {
		return nil, ErrLockExpired
	}

	// Final occupancy re-check: the lock may have expired and been
	// relocked/booked by someone else since the holder last looked.
	taken, err := s.repo.HasOccupyingBooking(ctx, l.ResourceID, l.Date, l.StartTime, l.EndTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	resource, err := s.venueRepo.GetResourceByID(ctx, l.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("resource lookup for lock %d: %w", l.ID, err)
	}

	hours := int64(l.EndTime.Sub(l.StartTime) / time.Hour)
	if hours < 1 {
		hours = 1
	}
	amount := resource.PriceCentsPerHour * hours

	order, err := s.gateway.CreateOrder(ctx, amount, "INR",
		fmt.Sprintf("lock-%d", l.ID),
		map[string]string{
			"resource_id": fmt.Sprintf("%d", l.ResourceID),
			"date":        l.Date.Format(lock.DateLayout),
		})
	if err != nil {
		return nil, fmt.Errorf("create payment order: %w", err)
	}

	b := &Booking{
		ResourceID:  l.ResourceID,
		Date:        l.Date,
		StartTime:   l.StartTime,
		EndTime:     l.EndTime,
		UserID:      userID,
		AmountCents: amount,
		Status:      StatusPending,
		LockID:      &l.ID,
		OrderRef:    &order.ID,
	}

	created, err := s.repo.Insert(ctx, b)
	if err != nil {
		if errors.Is(err, ErrDuplicateOccupyingBooking) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	converted, err := s.lockRepo.TransitionStatus(ctx, l.ID, lock.StatusActive, lock.StatusConverted)
	if err != nil || !converted {
		// The booking exists either way; a lock that slipped out of
		// active between our check and here is an integration anomaly
		// worth shouting about, not hiding.
		logger.Errorf("Booking %d created but lock %d could not be converted (err=%v, moved=%v)", created.ID, l.ID, err, converted)
	}

	metrics.RecordBooking(StatusPending)
	s.notifySlotChanged(ctx, created.ResourceID, created.Date)

	return created, nil
}

// Confirm advances a pending booking after the gateway reports the
// payment, verifying the returned signature against the stored order.
func (s *service) Confirm(ctx context.Context, userID, bookingID int, req ConfirmRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	if b.OrderRef == nil {
		return nil, ErrNoOrder
	}

	if !s.gateway.VerifySignature(*b.OrderRef, req.PaymentID, req.Signature) {
		return nil, ErrInvalidSignature
	}

	moved, err := s.repo.UpdateStatus(ctx, bookingID, StatusPending, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrNotPending
	}

	b.Status = StatusConfirmed
	metrics.RecordBooking(StatusConfirmed)
	s.sendMail(ctx, b, "confirmation")

	return b, nil
}

// Cancel frees the slot for future booking. It never resurrects the
// lock the booking came from.
func (s *service) Cancel(ctx context.Context, callerID int, callerRole string, bookingID int) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	allowed, err := s.mayCancel(ctx, callerID, callerRole, b)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotBookingOwner
	}

	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return ErrNotCancellable
	}

	moved, err := s.repo.UpdateStatus(ctx, bookingID, b.Status, StatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return ErrNotCancellable
	}

	metrics.RecordBookingCancellation()
	s.notifySlotChanged(ctx, b.ResourceID, b.Date)
	s.sendMail(ctx, b, "cancellation")

	return nil
}

func (s *service) mayCancel(ctx context.Context, callerID int, callerRole string, b *Booking) (bool, error) {
	if b.UserID == callerID || callerRole == auth.RoleAdmin {
		return true, nil
	}

	if callerRole != auth.RoleProvider {
		return false, nil
	}

	resource, err := s.venueRepo.GetResourceByID(ctx, b.ResourceID)
	if err != nil {
		return false, err
	}

	v, err := s.venueRepo.GetVenueByID(ctx, resource.VenueID)
	if err != nil {
		return false, err
	}

	return v.ProviderID == callerID, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, userID)
}

func (s *service) GetBookingsByResource(ctx context.Context, resourceID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByResource(ctx, resourceID)
}

func (s *service) GetBookingsByVenue(ctx context.Context, venueID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByVenue(ctx, venueID)
}

func (s *service) notifySlotChanged(ctx context.Context, resourceID int, date time.Time) {
	if s.notifier != nil {
		s.notifier.SlotChanged(ctx, resourceID, date)
	}
}

func (s *service) sendMail(ctx context.Context, b *Booking, kind string) {
	if s.mailer == nil {
		return
	}

	u, err := s.userRepo.FindByID(ctx, b.UserID)
	if err != nil || u == nil {
		return
	}

	what := fmt.Sprintf("Court booking #%d", b.ID)
	when := fmt.Sprintf("%s %s - %s",
		b.Date.Format("Jan 2, 2006"),
		b.StartTime.Format("15:04"),
		b.EndTime.Format("15:04"))

	switch kind {
	case "confirmation":
		_ = s.mailer.SendBookingConfirmation(ctx, u.Email, u.Name, what, when)
	case "cancellation":
		_ = s.mailer.SendBookingCancellation(ctx, u.Email, u.Name, what, when)
	}
}
