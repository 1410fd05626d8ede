package http

import (
	"fmt"
	"net/http"

	"equiprent-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingSvc service.BookingService
	payments   service.PaymentRequester
	validate   *validator.Validate
}

func NewBookingHandler(bookingSvc service.BookingService, payments service.PaymentRequester, validate *validator.Validate) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, payments: payments, validate: validate}
}

type createBookingRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	booking, err := h.bookingSvc.CreateBooking(r.Context(), GetUserIDFromContext(r.Context()), req.EquipmentID, req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.GetBooking(r.Context(), GetUserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.ApproveBooking(r.Context(), GetUserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.RejectBooking(r.Context(), GetUserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.CancelBooking(r.Context(), GetUserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// RequestPayment runs the external payment call for a booking and records
// the result. A decline is a 402 and leaves the booking intact so the client
// can retry with the same booking id.
func (h *BookingHandler) RequestPayment(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	bookingID := mux.Vars(r)["id"]

	booking, err := h.bookingSvc.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	description := fmt.Sprintf("Equipment rental %s to %s", booking.StartDate, booking.EndDate)
	result, err := h.payments.RequestPayment(r.Context(), booking.ID, booking.TotalPrice, booking.DepositAmount, description)
	if err != nil {
		writeError(w, http.StatusBadGateway, "payment_unavailable", "payment provider is unreachable")
		return
	}
	if !result.Success {
		writeError(w, http.StatusPaymentRequired, "payment_declined", result.Message)
		return
	}

	if err := h.bookingSvc.MarkPaid(r.Context(), booking.ID, result.Reference); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paid", "reference": result.Reference})
}

func (h *BookingHandler) ListAsOwner(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookingSvc.ListOwnerBookings(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": views})
}

func (h *BookingHandler) ListAsRenter(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookingSvc.ListRenterBookings(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": views})
}
