package service

import (
	"context"
	"errors"
	"fmt"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
	"equiprent-backend/internal/utils"
)

var (
	ErrEquipmentUnavailable = errors.New("equipment is not available for booking")
	ErrBookingNotPending    = errors.New("booking is not pending")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidDateRange     = errors.New("invalid date range")
)

type bookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	profileRepo   repository.ProfileRepository
	noteRepo      repository.NotificationRepository
	emailSvc      EmailService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	profileRepo repository.ProfileRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		profileRepo:   profileRepo,
		noteRepo:      noteRepo,
		emailSvc:      emailSvc,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID, equipmentID, startDate, endDate string) (*domain.Booking, error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("fetch equipment: %w", err)
	}
	if equipment.Status != domain.EquipmentStatusAvailable {
		return nil, ErrEquipmentUnavailable
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	totalPrice, err := utils.CalculateRentalCost(equipment.DailyPrice, equipment.WeeklyPrice, startDate, endDate)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		EquipmentID:   equipmentID,
		RenterID:      renterID,
		OwnerID:       equipment.OwnerID,
		StartDate:     startDate,
		EndDate:       endDate,
		DurationDays:  utils.InclusiveDays(start, end),
		TotalPrice:    totalPrice,
		TotalAmount:   totalPrice,
		DepositAmount: equipment.DepositAmount,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	logger.Info("Booking created", "booking_id", booking.ID, "equipment_id", equipmentID, "renter_id", renterID, "total_price", totalPrice)

	s.notify(ctx, equipment.OwnerID, "New booking request",
		fmt.Sprintf("New booking request for %s from %s to %s", equipment.Title, startDate, endDate),
		map[string]string{"type": "BOOKING_REQUEST", "booking_id": booking.ID})

	if renter, err := s.profileRepo.GetByID(ctx, renterID); err == nil {
		if owner, err := s.profileRepo.GetByID(ctx, equipment.OwnerID); err == nil {
			_ = s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, renter.FullName(), equipment.Title)
		}
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != userID && booking.OwnerID != userID {
		return nil, ErrUnauthorized
	}
	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.decide(ctx, ownerID, bookingID, domain.BookingStatusApproved)
}

func (s *bookingService) RejectBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.decide(ctx, ownerID, bookingID, domain.BookingStatusRejected)
}

func (s *bookingService) decide(ctx context.Context, ownerID, bookingID string, decision domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, decision); err != nil {
		return nil, err
	}
	booking.Status = decision
	logger.Info("Booking decision recorded", "booking_id", bookingID, "status", decision)

	equipment, eqErr := s.equipmentRepo.GetByID(ctx, booking.EquipmentID)
	title := sentinelEquipmentTitle
	if eqErr == nil {
		title = equipment.Title
	}

	if decision == domain.BookingStatusApproved {
		if eqErr == nil {
			equipment.Status = domain.EquipmentStatusRented
			_ = s.equipmentRepo.Update(ctx, equipment)
		}
		s.notify(ctx, booking.RenterID, "Booking approved",
			fmt.Sprintf("Your booking for %s was approved", title),
			map[string]string{"type": "BOOKING_APPROVED", "booking_id": bookingID})
		if renter, err := s.profileRepo.GetByID(ctx, booking.RenterID); err == nil {
			_ = s.emailSvc.SendBookingApprovalNotification(ctx, renter.Email, title)
		}
	} else {
		s.notify(ctx, booking.RenterID, "Booking rejected",
			fmt.Sprintf("Your booking for %s was rejected", title),
			map[string]string{"type": "BOOKING_REJECTED", "booking_id": bookingID})
		if renter, err := s.profileRepo.GetByID(ctx, booking.RenterID); err == nil {
			_ = s.emailSvc.SendBookingRejectionNotification(ctx, renter.Email, title)
		}
	}

	return booking, nil
}

// CancelBooking flips the status; the row itself is never removed.
func (s *bookingService) CancelBooking(ctx context.Context, renterID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, ErrUnauthorized
	}
	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("booking is already %s", booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = domain.BookingStatusCancelled
	logger.Info("Booking cancelled", "booking_id", bookingID, "renter_id", renterID)

	equipment, eqErr := s.equipmentRepo.GetByID(ctx, booking.EquipmentID)
	title := sentinelEquipmentTitle
	if eqErr == nil {
		title = equipment.Title
		if equipment.Status == domain.EquipmentStatusRented {
			equipment.Status = domain.EquipmentStatusAvailable
			_ = s.equipmentRepo.Update(ctx, equipment)
		}
	}

	s.notify(ctx, booking.OwnerID, "Booking cancelled",
		fmt.Sprintf("The booking for %s was cancelled by the renter", title),
		map[string]string{"type": "BOOKING_CANCELLED", "booking_id": bookingID})
	if renter, err := s.profileRepo.GetByID(ctx, renterID); err == nil {
		if owner, err := s.profileRepo.GetByID(ctx, booking.OwnerID); err == nil {
			_ = s.emailSvc.SendBookingCancellationNotification(ctx, owner.Email, renter.FullName(), title)
		}
	}

	return booking, nil
}

func (s *bookingService) MarkPaid(ctx context.Context, bookingID, reference string) error {
	return s.bookingRepo.UpdatePayment(ctx, bookingID, domain.PaymentStatusPaid, reference)
}

func (s *bookingService) ListOwnerBookings(ctx context.Context, ownerID string) ([]domain.BookingView, error) {
	rows, err := s.bookingRepo.FetchRowsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return TransformBookingRows(rows, domain.PerspectiveOwner), nil
}

func (s *bookingService) ListRenterBookings(ctx context.Context, renterID string) ([]domain.BookingView, error) {
	rows, err := s.bookingRepo.FetchRowsForRenter(ctx, renterID)
	if err != nil {
		return nil, err
	}
	return TransformBookingRows(rows, domain.PerspectiveRenter), nil
}

func (s *bookingService) notify(ctx context.Context, userID, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to store notification", "user_id", userID, "error", err)
	}
}
