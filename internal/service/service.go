package service

import (
	"context"

	"equiprent-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                // access, refresh
	FirebaseLogin(ctx context.Context, idToken string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	IsBookingComplete(ctx context.Context, userID string) (bool, error)
}

type EquipmentService interface {
	AddEquipment(ctx context.Context, equipment *domain.Equipment, imageURLs []string) error
	GetEquipment(ctx context.Context, id string) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, equipment *domain.Equipment) error
	ListMyEquipment(ctx context.Context, ownerID string, page, pageSize int32) ([]domain.Equipment, int32, error)
	ListAvailableEquipment(ctx context.Context, page, pageSize int32) ([]domain.Equipment, int32, error)
	SetPrimaryImage(ctx context.Context, ownerID, equipmentID, imageID string) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, renterID, equipmentID, startDate, endDate string) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, renterID, bookingID string) (*domain.Booking, error)
	MarkPaid(ctx context.Context, bookingID, reference string) error
	ListOwnerBookings(ctx context.Context, ownerID string) ([]domain.BookingView, error)
	ListRenterBookings(ctx context.Context, renterID string) ([]domain.BookingView, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error
	SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentTitle string) error
	SendBookingRejectionNotification(ctx context.Context, renterEmail, equipmentTitle string) error
	SendBookingCancellationNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error
	SendContractReadyNotification(ctx context.Context, email, equipmentTitle, documentURL string) error
}

// PaymentResult is what the external payment requester reports back. A
// declined payment is a result, not an error; errors are reserved for the
// requester being unreachable.
type PaymentResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message,omitempty"`
}

type PaymentRequester interface {
	RequestPayment(ctx context.Context, bookingID string, amount, depositAmount int64, description string) (*PaymentResult, error)
}

// DocumentRenderer abstracts the server-side rendering function that turns a
// booking into a contract document and returns its URL. The fields map holds
// the fully resolved template values for the document body.
type DocumentRenderer interface {
	Render(ctx context.Context, bookingID string, fields map[string]string) (string, error)
}

// FileSaver abstracts the client-side save utility the contract pipeline
// delegates downloads to.
type FileSaver interface {
	Download(ctx context.Context, url, filename string) error
}
