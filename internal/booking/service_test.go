package booking

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtbook/internal/auth"
	"courtbook/internal/lock"
	"courtbook/internal/logger"
	"courtbook/internal/payment"
	"courtbook/internal/user"
	"courtbook/internal/venue"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Insert(ctx context.Context, b *Booking) (*Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) HasOccupyingBooking(ctx context.Context, resourceID int, date, startTime, endTime time.Time) (bool, error) {
	args := m.Called(ctx, resourceID, date, startTime, endTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) OccupyingForDate(ctx context.Context, resourceID int, date time.Time) ([]Booking, error) {
	args := m.Called(ctx, resourceID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int, from, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) GetBookingsByResource(ctx context.Context, resourceID int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockBookingRepo) GetBookingsByVenue(ctx context.Context, venueID int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

type MockLockRepo struct{ mock.Mock }

func (m *MockLockRepo) Insert(ctx context.Context, resourceID int, date, startTime, endTime time.Time, userID int, expiresAt time.Time) (*lock.Lock, error) {
	args := m.Called(ctx, resourceID, date, startTime, endTime, userID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lock.Lock), args.Error(1)
}

func (m *MockLockRepo) FindActiveByKey(ctx context.Context, resourceID int, date, startTime, now time.Time) (*lock.Lock, error) {
	args := m.Called(ctx, resourceID, date, startTime, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lock.Lock), args.Error(1)
}

func (m *MockLockRepo) FindActiveForDate(ctx context.Context, resourceID int, date, now time.Time) ([]lock.Lock, error) {
	args := m.Called(ctx, resourceID, date, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lock.Lock), args.Error(1)
}

func (m *MockLockRepo) GetByID(ctx context.Context, id int) (*lock.Lock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lock.Lock), args.Error(1)
}

func (m *MockLockRepo) TransitionStatus(ctx context.Context, id int, from, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockLockRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockVenueRepo struct{ mock.Mock }

func (m *MockVenueRepo) CreateVenue(ctx context.Context, providerID int, name, location string) (*venue.Venue, error) {
	args := m.Called(ctx, providerID, name, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepo) GetVenueByID(ctx context.Context, id int) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepo) GetAllVenues(ctx context.Context) ([]venue.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]venue.Venue), args.Error(1)
}

func (m *MockVenueRepo) GetVenuesByProvider(ctx context.Context, providerID int) ([]venue.Venue, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]venue.Venue), args.Error(1)
}

func (m *MockVenueRepo) GetVenuesWithProvider(ctx context.Context) ([]venue.VenueWithProvider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]venue.VenueWithProvider), args.Error(1)
}

func (m *MockVenueRepo) DeleteVenue(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVenueRepo) CreateResource(ctx context.Context, venueID int, sport, label string, priceCentsPerHour int64) (*venue.Resource, error) {
	args := m.Called(ctx, venueID, sport, label, priceCentsPerHour)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Resource), args.Error(1)
}

func (m *MockVenueRepo) GetResourceByID(ctx context.Context, id int) (*venue.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Resource), args.Error(1)
}

func (m *MockVenueRepo) GetResourcesByVenue(ctx context.Context, venueID int) ([]venue.Resource, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]venue.Resource), args.Error(1)
}

func (m *MockVenueRepo) DeleteResource(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string, notes map[string]string) (*payment.Order, error) {
	args := m.Called(ctx, amountCents, currency, receipt, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderRef, paymentID, signature string) bool {
	args := m.Called(orderRef, paymentID, signature)
	return args.Bool(0)
}

type countingMailer struct {
	confirmations int
	cancellations int
}

func (m *countingMailer) SendBookingConfirmation(ctx context.Context, to, name, what, when string) error {
	m.confirmations++
	return nil
}

func (m *countingMailer) SendBookingCancellation(ctx context.Context, to, name, what, when string) error {
	m.cancellations++
	return nil
}

type countingNotifier struct{ events int }

func (n *countingNotifier) SlotChanged(ctx context.Context, resourceID int, date time.Time) {
	n.events++
}

var finalizeNow = time.Date(2026, 9, 1, 17, 55, 0, 0, time.UTC)

func heldLock() *lock.Lock {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &lock.Lock{
		ID:         5,
		ResourceID: 4,
		Date:       date,
		StartTime:  date.Add(18 * time.Hour),
		EndTime:    date.Add(19 * time.Hour),
		UserID:     1,
		Status:     lock.StatusActive,
		ExpiresAt:  finalizeNow.Add(5 * time.Minute),
	}
}

type fixture struct {
	repo      *MockBookingRepo
	lockRepo  *MockLockRepo
	venueRepo *MockVenueRepo
	userRepo  *MockUserRepo
	gateway   *MockGateway
	mailer    *countingMailer
	notifier  *countingNotifier
	svc       Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockBookingRepo),
		lockRepo:  new(MockLockRepo),
		venueRepo: new(MockVenueRepo),
		userRepo:  new(MockUserRepo),
		gateway:   new(MockGateway),
		mailer:    &countingMailer{},
		notifier:  &countingNotifier{},
	}
	f.svc = NewService(f.repo, f.lockRepo, f.venueRepo, f.userRepo,
		f.gateway, f.mailer, f.notifier,
		WithClock(func() time.Time { return finalizeNow }))
	return f
}

func TestFinalizeSuccess(t *testing.T) {
	f := newFixture()
	l := heldLock()

	f.lockRepo.On("GetByID", mock.Anything, 5).Return(l, nil)
	f.repo.On("HasOccupyingBooking", mock.Anything, 4, l.Date, l.StartTime, l.EndTime).Return(false, nil)
	f.venueRepo.On("GetResourceByID", mock.Anything, 4).Return(&venue.Resource{
		ID: 4, VenueID: 3, Sport: "badminton", Label: "Court 2", PriceCentsPerHour: 50000,
	}, nil)
	f.gateway.On("CreateOrder", mock.Anything, int64(50000), "INR", "lock-5", mock.Anything).
		Return(&payment.Order{ID: "order_abc", Amount: 50000, Currency: "INR"}, nil)
	f.repo.On("Insert", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.ResourceID == 4 &&
			b.UserID == 1 &&
			b.Status == StatusPending &&
			b.AmountCents == 50000 &&
			b.LockID != nil && *b.LockID == 5 &&
			b.OrderRef != nil && *b.OrderRef == "order_abc"
	})).Return(&Booking{ID: 20, ResourceID: 4, Date: l.Date, UserID: 1, Status: StatusPending}, nil)
	f.lockRepo.On("TransitionStatus", mock.Anything, 5, lock.StatusActive, lock.StatusConverted).
		Return(true, nil)

	b, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 5})
	require.NoError(t, err)
	assert.Equal(t, 20, b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 1, f.notifier.events)
	f.repo.AssertExpectations(t)
	f.lockRepo.AssertExpectations(t)
}

func TestFinalizeMultiHourAmount(t *testing.T) {
	f := newFixture()
	l := heldLock()
	l.EndTime = l.StartTime.Add(2 * time.Hour)

	f.lockRepo.On("GetByID", mock.Anything, 5).Return(l, nil)
	f.repo.On("HasOccupyingBooking", mock.Anything, 4, l.Date, l.StartTime, l.EndTime).Return(false, nil)
	f.venueRepo.On("GetResourceByID", mock.Anything, 4).Return(&venue.Resource{
		ID: 4, VenueID: 3, PriceCentsPerHour: 50000,
	}, nil)
	f.gateway.On("CreateOrder", mock.Anything, int64(100000), "INR", "lock-5", mock.Anything).
		Return(&payment.Order{ID: "order_abc"}, nil)
	f.repo.On("Insert", mock.Anything, mock.Anything).
		Return(&Booking{ID: 21, ResourceID: 4, Status: StatusPending}, nil)
	f.lockRepo.On("TransitionStatus", mock.Anything, 5, lock.StatusActive, lock.StatusConverted).
		Return(true, nil)

	_, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 5})
	require.NoError(t, err)
	f.gateway.AssertExpectations(t)
}

func TestFinalizeRejectsStaleLocks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*lock.Lock)
		wantErr error
	}{
		{
			name:    "released lock",
			mutate:  func(l *lock.Lock) { l.Status = lock.StatusReleased },
			wantErr: ErrLockNotActive,
		},
		{
			name:    "already converted lock",
			mutate:  func(l *lock.Lock) { l.Status = lock.StatusConverted },
			wantErr: ErrLockNotActive,
		},
		{
			name:    "expired lock still marked active",
			mutate:  func(l *lock.Lock) { l.ExpiresAt = finalizeNow.Add(-time.Second) },
			wantErr: ErrLockExpired,
		},
		{
			name:    "lock held by someone else",
			mutate:  func(l *lock.Lock) { l.UserID = 99 },
			wantErr: ErrLockHolderMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			l := heldLock()
			tt.mutate(l)

			f.lockRepo.On("GetByID", mock.Anything, 5).Return(l, nil)

			_, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 5})
			assert.ErrorIs(t, err, tt.wantErr)
			f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestFinalizeUnknownLock(t *testing.T) {
	f := newFixture()

	f.lockRepo.On("GetByID", mock.Anything, 404).Return(nil, assert.AnError)

	_, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 404})
	assert.ErrorIs(t, err, ErrLockNotFound)
}

func TestFinalizeOccupancyRecheck(t *testing.T) {
	f := newFixture()
	l := heldLock()

	f.lockRepo.On("GetByID", mock.Anything, 5).Return(l, nil)
	f.repo.On("HasOccupyingBooking", mock.Anything, 4, l.Date, l.StartTime, l.EndTime).Return(true, nil)

	_, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 5})
	assert.ErrorIs(t, err, ErrSlotTaken)
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeDuplicateInsertMapsToSlotTaken(t *testing.T) {
	f := newFixture()
	l := heldLock()

	f.lockRepo.On("GetByID", mock.Anything, 5).Return(l, nil)
	f.repo.On("HasOccupyingBooking", mock.Anything, 4, l.Date, l.StartTime, l.EndTime).Return(false, nil)
	f.venueRepo.On("GetResourceByID", mock.Anything, 4).Return(&venue.Resource{
		ID: 4, VenueID: 3, PriceCentsPerHour: 50000,
	}, nil)
	f.gateway.On("CreateOrder", mock.Anything, int64(50000), "INR", "lock-5", mock.Anything).
		Return(&payment.Order{ID: "order_abc"}, nil)
	f.repo.On("Insert", mock.Anything, mock.Anything).Return(nil, ErrDuplicateOccupyingBooking)

	_, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 5})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// The lock stays as-is so the holder's state is untouched.
	f.lockRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeInsertFailureLeavesLockActive(t *testing.T) {
	f := newFixture()
	l := heldLock()

	f.lockRepo.On("GetByID", mock.Anything, 5).Return(l, nil)
	f.repo.On("HasOccupyingBooking", mock.Anything, 4, l.Date, l.StartTime, l.EndTime).Return(false, nil)
	f.venueRepo.On("GetResourceByID", mock.Anything, 4).Return(&venue.Resource{
		ID: 4, VenueID: 3, PriceCentsPerHour: 50000,
	}, nil)
	f.gateway.On("CreateOrder", mock.Anything, int64(50000), "INR", "lock-5", mock.Anything).
		Return(&payment.Order{ID: "order_abc"}, nil)
	f.repo.On("Insert", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := f.svc.Finalize(context.Background(), 1, FinalizeRequest{LockID: 5})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	f.lockRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.notifier.events)
}

func TestConfirmSuccess(t *testing.T) {
	f := newFixture()
	orderRef := "order_abc"

	f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
		ID: 20, ResourceID: 4, UserID: 1, Status: StatusPending, OrderRef: &orderRef,
	}, nil)
	f.gateway.On("VerifySignature", "order_abc", "pay_123", "sig_ok").Return(true)
	f.repo.On("UpdateStatus", mock.Anything, 20, StatusPending, StatusConfirmed).Return(true, nil)
	f.userRepo.On("FindByID", mock.Anything, 1).Return(&user.User{
		ID: 1, Name: "Asha", Email: "asha@example.com",
	}, nil)

	b, err := f.svc.Confirm(context.Background(), 1, 20, ConfirmRequest{
		PaymentID: "pay_123",
		Signature: "sig_ok",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, 1, f.mailer.confirmations)
}

func TestConfirmInvalidSignature(t *testing.T) {
	f := newFixture()
	orderRef := "order_abc"

	f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
		ID: 20, UserID: 1, Status: StatusPending, OrderRef: &orderRef,
	}, nil)
	f.gateway.On("VerifySignature", "order_abc", "pay_123", "sig_bad").Return(false)

	_, err := f.svc.Confirm(context.Background(), 1, 20, ConfirmRequest{
		PaymentID: "pay_123",
		Signature: "sig_bad",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmGuards(t *testing.T) {
	orderRef := "order_abc"

	t.Run("booking not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, 404).Return(nil, assert.AnError)

		_, err := f.svc.Confirm(context.Background(), 1, 404, ConfirmRequest{PaymentID: "p", Signature: "s"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
			ID: 20, UserID: 2, Status: StatusPending, OrderRef: &orderRef,
		}, nil)

		_, err := f.svc.Confirm(context.Background(), 1, 20, ConfirmRequest{PaymentID: "p", Signature: "s"})
		assert.ErrorIs(t, err, ErrNotBookingOwner)
	})

	t.Run("no payment order", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
			ID: 20, UserID: 1, Status: StatusPending,
		}, nil)

		_, err := f.svc.Confirm(context.Background(), 1, 20, ConfirmRequest{PaymentID: "p", Signature: "s"})
		assert.ErrorIs(t, err, ErrNoOrder)
	})

	t.Run("already confirmed", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
			ID: 20, UserID: 1, Status: StatusConfirmed, OrderRef: &orderRef,
		}, nil)
		f.gateway.On("VerifySignature", "order_abc", "p", "s").Return(true)
		f.repo.On("UpdateStatus", mock.Anything, 20, StatusPending, StatusConfirmed).Return(false, nil)

		_, err := f.svc.Confirm(context.Background(), 1, 20, ConfirmRequest{PaymentID: "p", Signature: "s"})
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestCancelByOwner(t *testing.T) {
	f := newFixture()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
		ID: 20, ResourceID: 4, Date: date, UserID: 1, Status: StatusConfirmed,
	}, nil)
	f.repo.On("UpdateStatus", mock.Anything, 20, StatusConfirmed, StatusCancelled).Return(true, nil)
	f.userRepo.On("FindByID", mock.Anything, 1).Return(&user.User{
		ID: 1, Name: "Asha", Email: "asha@example.com",
	}, nil)

	err := f.svc.Cancel(context.Background(), 1, auth.RoleCustomer, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.events)
	assert.Equal(t, 1, f.mailer.cancellations)
}

func TestCancelByAdmin(t *testing.T) {
	f := newFixture()

	f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
		ID: 20, ResourceID: 4, UserID: 1, Status: StatusPending,
	}, nil)
	f.repo.On("UpdateStatus", mock.Anything, 20, StatusPending, StatusCancelled).Return(true, nil)
	f.userRepo.On("FindByID", mock.Anything, 1).Return(&user.User{ID: 1, Email: "asha@example.com"}, nil)

	err := f.svc.Cancel(context.Background(), 99, auth.RoleAdmin, 20)
	require.NoError(t, err)
}

func TestCancelByVenueProvider(t *testing.T) {
	f := newFixture()

	f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
		ID: 20, ResourceID: 4, UserID: 1, Status: StatusConfirmed,
	}, nil)
	f.venueRepo.On("GetResourceByID", mock.Anything, 4).Return(&venue.Resource{ID: 4, VenueID: 3}, nil)
	f.venueRepo.On("GetVenueByID", mock.Anything, 3).Return(&venue.Venue{ID: 3, ProviderID: 7}, nil)
	f.repo.On("UpdateStatus", mock.Anything, 20, StatusConfirmed, StatusCancelled).Return(true, nil)
	f.userRepo.On("FindByID", mock.Anything, 1).Return(&user.User{ID: 1, Email: "asha@example.com"}, nil)

	err := f.svc.Cancel(context.Background(), 7, auth.RoleProvider, 20)
	require.NoError(t, err)
}

func TestCancelDenied(t *testing.T) {
	t.Run("stranger customer", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
			ID: 20, ResourceID: 4, UserID: 1, Status: StatusConfirmed,
		}, nil)

		err := f.svc.Cancel(context.Background(), 2, auth.RoleCustomer, 20)
		assert.ErrorIs(t, err, ErrNotBookingOwner)
	})

	t.Run("provider of a different venue", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
			ID: 20, ResourceID: 4, UserID: 1, Status: StatusConfirmed,
		}, nil)
		f.venueRepo.On("GetResourceByID", mock.Anything, 4).Return(&venue.Resource{ID: 4, VenueID: 3}, nil)
		f.venueRepo.On("GetVenueByID", mock.Anything, 3).Return(&venue.Venue{ID: 3, ProviderID: 7}, nil)

		err := f.svc.Cancel(context.Background(), 8, auth.RoleProvider, 20)
		assert.ErrorIs(t, err, ErrNotBookingOwner)
	})
}

func TestCancelNotCancellable(t *testing.T) {
	for _, status := range []string{StatusCancelled, StatusCompleted} {
		t.Run(status, func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
				ID: 20, ResourceID: 4, UserID: 1, Status: status,
			}, nil)

			err := f.svc.Cancel(context.Background(), 1, auth.RoleCustomer, 20)
			assert.ErrorIs(t, err, ErrNotCancellable)
			f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// Once a lock has been converted it stays converted; cancelling the
// booking later must not bring the hold back.
func TestCancelNeverResurrectsLock(t *testing.T) {
	f := newFixture()
	lockID := 5

	f.repo.On("GetByID", mock.Anything, 20).Return(&Booking{
		ID: 20, ResourceID: 4, UserID: 1, Status: StatusConfirmed, LockID: &lockID,
	}, nil)
	f.repo.On("UpdateStatus", mock.Anything, 20, StatusConfirmed, StatusCancelled).Return(true, nil)
	f.userRepo.On("FindByID", mock.Anything, 1).Return(&user.User{ID: 1, Email: "asha@example.com"}, nil)

	err := f.svc.Cancel(context.Background(), 1, auth.RoleCustomer, 20)
	require.NoError(t, err)
	f.lockRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.lockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
