package http

import (
	"net/http"

	"equiprent-backend/internal/contract"
	"equiprent-backend/internal/security"
	"equiprent-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	AuthSvc         service.AuthService
	ProfileSvc      service.ProfileService
	EquipmentSvc    service.EquipmentService
	BookingSvc      service.BookingService
	NotificationSvc service.NotificationService
	Payments        service.PaymentRequester
	Pipeline        *contract.Pipeline
	TokenManager    security.TokenManager
}

// NewRouter builds the API router with auth and logging middleware applied.
func NewRouter(deps RouterDeps) *mux.Router {
	validate := validator.New()

	auth := NewAuthHandler(deps.AuthSvc, validate)
	profile := NewProfileHandler(deps.ProfileSvc, validate)
	equipment := NewEquipmentHandler(deps.EquipmentSvc, validate)
	booking := NewBookingHandler(deps.BookingSvc, deps.Payments, validate)
	contracts := NewContractHandler(deps.Pipeline, validate)
	notifications := NewNotificationHandler(deps.NotificationSvc)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	r.Use(AuthMiddleware(deps.TokenManager))

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/signup", auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/firebase", auth.FirebaseLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost)

	// Profile
	api.HandleFunc("/profile", profile.Get).Methods(http.MethodGet)
	api.HandleFunc("/profile", profile.Update).Methods(http.MethodPut)
	api.HandleFunc("/profile/completeness", profile.Completeness).Methods(http.MethodGet)

	// Equipment; "mine" must be registered before "{id}"
	api.HandleFunc("/equipment/mine", equipment.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/equipment", equipment.ListAvailable).Methods(http.MethodGet)
	api.HandleFunc("/equipment", equipment.Add).Methods(http.MethodPost)
	api.HandleFunc("/equipment/{id}", equipment.Get).Methods(http.MethodGet)
	api.HandleFunc("/equipment/{id}", equipment.Update).Methods(http.MethodPut)
	api.HandleFunc("/equipment/{id}/images/{imageId}/primary", equipment.SetPrimaryImage).Methods(http.MethodPut)

	// Bookings
	api.HandleFunc("/bookings", booking.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings/owner", booking.ListAsOwner).Methods(http.MethodGet)
	api.HandleFunc("/bookings/renter", booking.ListAsRenter).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", booking.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/approve", booking.Approve).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/reject", booking.Reject).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", booking.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/payment", booking.RequestPayment).Methods(http.MethodPost)

	// Contracts
	api.HandleFunc("/bookings/{id}/contract", contracts.Generate).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/contract", contracts.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/contract/sign", contracts.Sign).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/contract/download", contracts.Download).Methods(http.MethodPost)

	// Notifications
	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
