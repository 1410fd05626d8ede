package http

import (
	"net/http"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"

	"github.com/go-playground/validator/v10"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
	validate   *validator.Validate
}

func NewProfileHandler(profileSvc service.ProfileService, validate *validator.Validate) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, validate: validate}
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Country   string `json:"country" validate:"required"`
	IDNumber  string `json:"id_number" validate:"required"`
	AvatarURL string `json:"avatar_url"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	profile, err := h.profileSvc.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	profile := &domain.Profile{
		ID:        GetUserIDFromContext(r.Context()),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		IDNumber:  req.IDNumber,
		AvatarURL: req.AvatarURL,
	}
	updated, err := h.profileSvc.UpdateProfile(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Completeness reports whether the profile can back a booking; the client
// uses this to decide whether to open the profile sub-flow.
func (h *ProfileHandler) Completeness(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	complete, err := h.profileSvc.IsBookingComplete(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"booking_complete": complete})
}
