package repository

import (
	"context"

	"equiprent-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Update(ctx context.Context, equipment *domain.Equipment) error
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int32) ([]domain.Equipment, int32, error)
	ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Equipment, int32, error)

	CreateImage(ctx context.Context, image *domain.EquipmentImage) error
	GetImages(ctx context.Context, equipmentID string) ([]domain.EquipmentImage, error)
	SetPrimaryImage(ctx context.Context, equipmentID, imageID string) error
	DeleteImage(ctx context.Context, imageID string) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, reference string) error
	UpdateContract(ctx context.Context, id string, contractURL string, renterSigned, ownerSigned bool) error

	// FetchRowsForOwner and FetchRowsForRenter return raw left-joined rows,
	// newest booking first. Equipment and counterparty sub-records may be
	// nil when the joined record is missing.
	FetchRowsForOwner(ctx context.Context, ownerID string) ([]domain.RawBookingRow, error)
	FetchRowsForRenter(ctx context.Context, renterID string) ([]domain.RawBookingRow, error)

	// ListExpirable supports the scheduled jobs: approved bookings whose end
	// date has passed, and pending bookings created before the horizon.
	ListPastEndDate(ctx context.Context, status domain.BookingStatus, endBefore string) ([]domain.Booking, error)
	ListStalePending(ctx context.Context, createdBefore string) ([]domain.Booking, error)
}

type ContractRepository interface {
	// Upsert inserts the document for a booking or replaces the stored URL
	// on regeneration.
	Upsert(ctx context.Context, doc *domain.ContractDocument) error
	GetByBookingID(ctx context.Context, bookingID string) (*domain.ContractDocument, error)
	UpdateSignatures(ctx context.Context, doc *domain.ContractDocument) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}
