package service

import (
	"time"

	"equiprent-backend/internal/domain"
)

// sentinelEquipmentTitle marks booking rows whose equipment join came back
// empty. The title is user visible, so downstream can both render and detect
// the placeholder.
const sentinelEquipmentTitle = "Unknown equipment"

// TransformBookingRows maps raw joined rows onto perspective-tagged booking
// views. It is a pure mapping: output length and order always match the
// input, statuses are normalized, and missing joined sub-records are replaced
// with sentinels instead of dropping the row. A booking row is a financial
// fact; losing one because a join failed is never acceptable.
func TransformBookingRows(rows []domain.RawBookingRow, perspective domain.Perspective) []domain.BookingView {
	views := make([]domain.BookingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, transformBookingRow(row, perspective))
	}
	return views
}

func transformBookingRow(row domain.RawBookingRow, perspective domain.Perspective) domain.BookingView {
	booking := row.Booking
	booking.Status = domain.NormalizeBookingStatus(string(booking.Status))
	// total_amount is the pre-rename field name; keep both in lockstep so
	// records written against either schema read the same.
	booking.TotalAmount = booking.TotalPrice

	view := domain.BookingView{
		Booking:     booking,
		Perspective: perspective,
	}

	if row.Equipment != nil {
		view.Equipment = *row.Equipment
	} else {
		view.Equipment = sentinelEquipment()
	}

	if row.Counterparty != nil {
		view.Counterparty = *row.Counterparty
	} else {
		view.Counterparty = sentinelProfile()
	}

	return view
}

// sentinelEquipment stands in for an equipment record the join could not
// resolve: empty id, zero prices, unavailable status.
func sentinelEquipment() domain.Equipment {
	return domain.Equipment{
		ID:     "",
		Title:  sentinelEquipmentTitle,
		Status: domain.EquipmentStatusUnavailable,
	}
}

func sentinelProfile() domain.Profile {
	now := time.Now().UTC().Format(time.RFC3339)
	return domain.Profile{
		ID:        "",
		CreatedOn: now,
		UpdatedOn: now,
	}
}
