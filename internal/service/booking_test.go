package service

import (
	"context"
	"errors"
	"testing"

	"equiprent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockBookingRepo) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, reference string) error {
	args := m.Called(ctx, id, status, reference)
	return args.Error(0)
}

func (m *mockBookingRepo) UpdateContract(ctx context.Context, id string, contractURL string, renterSigned, ownerSigned bool) error {
	args := m.Called(ctx, id, contractURL, renterSigned, ownerSigned)
	return args.Error(0)
}

func (m *mockBookingRepo) FetchRowsForOwner(ctx context.Context, ownerID string) ([]domain.RawBookingRow, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawBookingRow), args.Error(1)
}

func (m *mockBookingRepo) FetchRowsForRenter(ctx context.Context, renterID string) ([]domain.RawBookingRow, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawBookingRow), args.Error(1)
}

func (m *mockBookingRepo) ListPastEndDate(ctx context.Context, status domain.BookingStatus, endBefore string) ([]domain.Booking, error) {
	args := m.Called(ctx, status, endBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListStalePending(ctx context.Context, createdBefore string) ([]domain.Booking, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type mockEquipmentRepo struct{ mock.Mock }

func (m *mockEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *mockEquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockEquipmentRepo) ListByOwner(ctx context.Context, ownerID string, page, pageSize int32) ([]domain.Equipment, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Equipment), args.Get(1).(int32), args.Error(2)
}

func (m *mockEquipmentRepo) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Equipment, int32, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Equipment), args.Get(1).(int32), args.Error(2)
}

func (m *mockEquipmentRepo) CreateImage(ctx context.Context, image *domain.EquipmentImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *mockEquipmentRepo) GetImages(ctx context.Context, equipmentID string) ([]domain.EquipmentImage, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EquipmentImage), args.Error(1)
}

func (m *mockEquipmentRepo) SetPrimaryImage(ctx context.Context, equipmentID, imageID string) error {
	args := m.Called(ctx, equipmentID, imageID)
	return args.Error(0)
}

func (m *mockEquipmentRepo) DeleteImage(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentTitle)
	return args.Error(0)
}

func (m *mockEmailService) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentTitle string) error {
	args := m.Called(ctx, renterEmail, equipmentTitle)
	return args.Error(0)
}

func (m *mockEmailService) SendBookingRejectionNotification(ctx context.Context, renterEmail, equipmentTitle string) error {
	args := m.Called(ctx, renterEmail, equipmentTitle)
	return args.Error(0)
}

func (m *mockEmailService) SendBookingCancellationNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentTitle)
	return args.Error(0)
}

func (m *mockEmailService) SendContractReadyNotification(ctx context.Context, email, equipmentTitle, documentURL string) error {
	args := m.Called(ctx, email, equipmentTitle, documentURL)
	return args.Error(0)
}

type bookingServiceFixture struct {
	bookings  *mockBookingRepo
	equipment *mockEquipmentRepo
	profiles  *mockProfileRepo
	notes     *mockNotificationRepo
	email     *mockEmailService
	svc       BookingService
}

func newBookingServiceFixture() *bookingServiceFixture {
	f := &bookingServiceFixture{
		bookings:  new(mockBookingRepo),
		equipment: new(mockEquipmentRepo),
		profiles:  new(mockProfileRepo),
		notes:     new(mockNotificationRepo),
		email:     new(mockEmailService),
	}
	f.svc = NewBookingService(f.bookings, f.equipment, f.profiles, f.notes, f.email)
	return f
}

func availableEquipment() *domain.Equipment {
	return &domain.Equipment{
		ID:            "eq-1",
		OwnerID:       "user-o",
		Title:         "Excavator",
		DailyPrice:    45000,
		WeeklyPrice:   250000,
		DepositAmount: 150000,
		Status:        domain.EquipmentStatusAvailable,
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.equipment.On("GetByID", ctx, "eq-1").Return(availableEquipment(), nil)
		f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.notes.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.profiles.On("GetByID", ctx, "user-r").Return(&domain.Profile{ID: "user-r", FirstName: "Awa", LastName: "Diop", Email: "awa@example.com"}, nil)
		f.profiles.On("GetByID", ctx, "user-o").Return(&domain.Profile{ID: "user-o", Email: "owner@example.com"}, nil)
		f.email.On("SendBookingRequestNotification", ctx, "owner@example.com", "Awa Diop", "Excavator").Return(nil)

		booking, err := f.svc.CreateBooking(ctx, "user-r", "eq-1", "2024-03-01", "2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, "user-o", booking.OwnerID)
		assert.Equal(t, int32(10), booking.DurationDays)
		// 10 days = one weekly block plus three daily rates.
		assert.Equal(t, int64(385000), booking.TotalPrice)
		assert.Equal(t, booking.TotalPrice, booking.TotalAmount)
		assert.Equal(t, int64(150000), booking.DepositAmount)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		assert.Equal(t, domain.PaymentStatusUnpaid, booking.PaymentStatus)
		f.email.AssertExpectations(t)
	})

	t.Run("EquipmentNotAvailable", func(t *testing.T) {
		f := newBookingServiceFixture()
		rented := availableEquipment()
		rented.Status = domain.EquipmentStatusRented
		f.equipment.On("GetByID", ctx, "eq-1").Return(rented, nil)

		_, err := f.svc.CreateBooking(ctx, "user-r", "eq-1", "2024-03-01", "2024-03-10")
		assert.ErrorIs(t, err, ErrEquipmentUnavailable)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.equipment.On("GetByID", ctx, "eq-1").Return(availableEquipment(), nil)

		_, err := f.svc.CreateBooking(ctx, "user-r", "eq-1", "2024-03-10", "2024-03-01")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("EmailFailureDoesNotFailBooking", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.equipment.On("GetByID", ctx, "eq-1").Return(availableEquipment(), nil)
		f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.notes.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.profiles.On("GetByID", ctx, mock.Anything).Return(nil, errors.New("profile missing"))

		booking, err := f.svc.CreateBooking(ctx, "user-r", "eq-1", "2024-03-01", "2024-03-02")
		require.NoError(t, err)
		assert.Equal(t, int64(90000), booking.TotalPrice)
	})
}

func TestBookingService_Decisions(t *testing.T) {
	ctx := context.Background()
	pending := func() *domain.Booking {
		return &domain.Booking{
			ID:          "bk-1",
			EquipmentID: "eq-1",
			RenterID:    "user-r",
			OwnerID:     "user-o",
			Status:      domain.BookingStatusPending,
		}
	}

	t.Run("ApproveMarksEquipmentRented", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.bookings.On("GetByID", ctx, "bk-1").Return(pending(), nil)
		f.bookings.On("UpdateStatus", ctx, "bk-1", domain.BookingStatusApproved).Return(nil)
		f.equipment.On("GetByID", ctx, "eq-1").Return(availableEquipment(), nil)
		f.equipment.On("Update", ctx, mock.MatchedBy(func(e *domain.Equipment) bool {
			return e.Status == domain.EquipmentStatusRented
		})).Return(nil)
		f.notes.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.profiles.On("GetByID", ctx, "user-r").Return(&domain.Profile{Email: "awa@example.com"}, nil)
		f.email.On("SendBookingApprovalNotification", ctx, "awa@example.com", "Excavator").Return(nil)

		booking, err := f.svc.ApproveBooking(ctx, "user-o", "bk-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusApproved, booking.Status)
		f.equipment.AssertExpectations(t)
	})

	t.Run("RejectLeavesEquipmentAlone", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.bookings.On("GetByID", ctx, "bk-1").Return(pending(), nil)
		f.bookings.On("UpdateStatus", ctx, "bk-1", domain.BookingStatusRejected).Return(nil)
		f.equipment.On("GetByID", ctx, "eq-1").Return(availableEquipment(), nil)
		f.notes.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.profiles.On("GetByID", ctx, "user-r").Return(&domain.Profile{Email: "awa@example.com"}, nil)
		f.email.On("SendBookingRejectionNotification", ctx, "awa@example.com", "Excavator").Return(nil)

		booking, err := f.svc.RejectBooking(ctx, "user-o", "bk-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusRejected, booking.Status)
		f.equipment.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("OnlyOwnerMayDecide", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.bookings.On("GetByID", ctx, "bk-1").Return(pending(), nil)

		_, err := f.svc.ApproveBooking(ctx, "somebody-else", "bk-1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("NonPendingRejected", func(t *testing.T) {
		f := newBookingServiceFixture()
		decided := pending()
		decided.Status = domain.BookingStatusApproved
		f.bookings.On("GetByID", ctx, "bk-1").Return(decided, nil)

		_, err := f.svc.ApproveBooking(ctx, "user-o", "bk-1")
		assert.ErrorIs(t, err, ErrBookingNotPending)
	})

	t.Run("DecisionNotifiedEvenWhenEquipmentGone", func(t *testing.T) {
		f := newBookingServiceFixture()
		f.bookings.On("GetByID", ctx, "bk-1").Return(pending(), nil)
		f.bookings.On("UpdateStatus", ctx, "bk-1", domain.BookingStatusRejected).Return(nil)
		f.equipment.On("GetByID", ctx, "eq-1").Return(nil, errors.New("not found"))
		f.notes.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "user-r"
		})).Return(nil)
		f.profiles.On("GetByID", ctx, "user-r").Return(&domain.Profile{Email: "awa@example.com"}, nil)
		f.email.On("SendBookingRejectionNotification", ctx, "awa@example.com", "Unknown equipment").Return(nil)

		_, err := f.svc.RejectBooking(ctx, "user-o", "bk-1")
		require.NoError(t, err)
		f.email.AssertExpectations(t)
	})
}

func TestBookingService_CancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("ReleasesRentedEquipment", func(t *testing.T) {
		f := newBookingServiceFixture()
		booking := &domain.Booking{
			ID:          "bk-1",
			EquipmentID: "eq-1",
			RenterID:    "user-r",
			OwnerID:     "user-o",
			Status:      domain.BookingStatusApproved,
		}
		rented := availableEquipment()
		rented.Status = domain.EquipmentStatusRented

		f.bookings.On("GetByID", ctx, "bk-1").Return(booking, nil)
		f.bookings.On("UpdateStatus", ctx, "bk-1", domain.BookingStatusCancelled).Return(nil)
		f.equipment.On("GetByID", ctx, "eq-1").Return(rented, nil)
		f.equipment.On("Update", ctx, mock.MatchedBy(func(e *domain.Equipment) bool {
			return e.Status == domain.EquipmentStatusAvailable
		})).Return(nil)
		f.notes.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.profiles.On("GetByID", ctx, "user-r").Return(&domain.Profile{FirstName: "Awa", LastName: "Diop"}, nil)
		f.profiles.On("GetByID", ctx, "user-o").Return(&domain.Profile{Email: "owner@example.com"}, nil)
		f.email.On("SendBookingCancellationNotification", ctx, "owner@example.com", "Awa Diop", "Excavator").Return(nil)

		cancelled, err := f.svc.CancelBooking(ctx, "user-r", "bk-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
		f.equipment.AssertExpectations(t)
	})

	t.Run("TerminalBookingCannotBeCancelled", func(t *testing.T) {
		f := newBookingServiceFixture()
		done := &domain.Booking{ID: "bk-1", RenterID: "user-r", Status: domain.BookingStatusCompleted}
		f.bookings.On("GetByID", ctx, "bk-1").Return(done, nil)

		_, err := f.svc.CancelBooking(ctx, "user-r", "bk-1")
		assert.Error(t, err)
		f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OnlyRenterMayCancel", func(t *testing.T) {
		f := newBookingServiceFixture()
		booking := &domain.Booking{ID: "bk-1", RenterID: "user-r", OwnerID: "user-o", Status: domain.BookingStatusPending}
		f.bookings.On("GetByID", ctx, "bk-1").Return(booking, nil)

		_, err := f.svc.CancelBooking(ctx, "user-o", "bk-1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestBookingService_GetBooking(t *testing.T) {
	ctx := context.Background()
	f := newBookingServiceFixture()
	booking := &domain.Booking{ID: "bk-1", RenterID: "user-r", OwnerID: "user-o"}
	f.bookings.On("GetByID", ctx, "bk-1").Return(booking, nil)

	got, err := f.svc.GetBooking(ctx, "user-r", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", got.ID)

	got, err = f.svc.GetBooking(ctx, "user-o", "bk-1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	_, err = f.svc.GetBooking(ctx, "stranger", "bk-1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBookingService_Listings(t *testing.T) {
	ctx := context.Background()
	f := newBookingServiceFixture()

	rows := []domain.RawBookingRow{
		{Booking: domain.Booking{ID: "bk-1", Status: "en_attente", TotalPrice: 90000}},
	}
	f.bookings.On("FetchRowsForOwner", ctx, "user-o").Return(rows, nil)

	views, err := f.svc.ListOwnerBookings(ctx, "user-o")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.BookingStatusPending, views[0].Status)
	assert.Equal(t, "Unknown equipment", views[0].Equipment.Title)
}
