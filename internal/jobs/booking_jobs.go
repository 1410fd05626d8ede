package jobs

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/utils"
)

// CompleteFinishedBookings flips approved bookings whose rental period has
// ended to completed and returns their equipment to the available pool.
func (jr *JobRunner) CompleteFinishedBookings() {
	jr.runWithRecovery("CompleteFinishedBookings", func() {
		ctx := context.Background()
		today := utils.FormatDate(time.Now().UTC())

		bookings, err := jr.store.ListPastEndDate(ctx, domain.BookingStatusApproved, today)
		if err != nil {
			logger.Error("Failed to list finished bookings", "error", err)
			return
		}

		completed := 0
		for _, b := range bookings {
			if err := jr.store.UpdateStatus(ctx, b.ID, domain.BookingStatusCompleted); err != nil {
				logger.Error("Failed to complete booking", "booking_id", b.ID, "error", err)
				continue
			}
			jr.releaseEquipment(ctx, b.EquipmentID)
			completed++
		}
		logger.Info("Finished bookings completed", "count", completed, "candidates", len(bookings))
	})
}

// ExpireStaleBookings cancels pending bookings that have sat unanswered past
// the configured horizon, so listings do not stay soft-locked forever.
func (jr *JobRunner) ExpireStaleBookings() {
	jr.runWithRecovery("ExpireStaleBookings", func() {
		ctx := context.Background()
		horizon := time.Now().UTC().AddDate(0, 0, -jr.config.Scheduler.StalePendingDays)
		cutoff := horizon.Format(time.RFC3339)

		bookings, err := jr.store.ListStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending bookings", "error", err)
			return
		}

		expired := 0
		for _, b := range bookings {
			if err := jr.store.UpdateStatus(ctx, b.ID, domain.BookingStatusCancelled); err != nil {
				logger.Error("Failed to expire booking", "booking_id", b.ID, "error", err)
				continue
			}
			jr.notifyExpiry(ctx, b)
			expired++
		}
		logger.Info("Stale pending bookings expired", "count", expired, "candidates", len(bookings))
	})
}

func (jr *JobRunner) releaseEquipment(ctx context.Context, equipmentID string) {
	equipment, err := jr.store.EquipmentRepository.GetByID(ctx, equipmentID)
	if err != nil || equipment == nil {
		logger.Warn("Could not load equipment for release", "equipment_id", equipmentID, "error", err)
		return
	}
	if equipment.Status != domain.EquipmentStatusRented {
		return
	}
	equipment.Status = domain.EquipmentStatusAvailable
	if err := jr.store.EquipmentRepository.Update(ctx, equipment); err != nil {
		logger.Error("Failed to release equipment", "equipment_id", equipmentID, "error", err)
	}
}

func (jr *JobRunner) notifyExpiry(ctx context.Context, b domain.Booking) {
	note := &domain.Notification{
		UserID:  b.RenterID,
		Title:   "Booking request expired",
		Message: "Your booking request was not answered in time and has been cancelled.",
		Attributes: map[string]string{
			"booking_id": b.ID,
		},
	}
	if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
		logger.Warn("Failed to create expiry notification", "booking_id", b.ID, "error", err)
	}

	renter, err := jr.store.ProfileRepository.GetByID(ctx, b.RenterID)
	if err != nil || renter == nil || renter.Email == "" {
		return
	}
	title := "your requested equipment"
	if equipment, err := jr.store.EquipmentRepository.GetByID(ctx, b.EquipmentID); err == nil && equipment != nil {
		title = equipment.Title
	}
	if err := jr.services.Email.SendBookingRejectionNotification(ctx, renter.Email, title); err != nil {
		logger.Warn("Failed to send expiry email", "booking_id", b.ID, "error", err)
	}
}
