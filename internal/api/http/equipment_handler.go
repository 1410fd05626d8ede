package http

import (
	"net/http"
	"strconv"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type EquipmentHandler struct {
	equipmentSvc service.EquipmentService
	validate     *validator.Validate
}

func NewEquipmentHandler(equipmentSvc service.EquipmentService, validate *validator.Validate) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc, validate: validate}
}

type equipmentRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"required"`
	Subcategory   string   `json:"subcategory"`
	DailyPrice    int64    `json:"daily_price" validate:"required,gt=0"`
	WeeklyPrice   int64    `json:"weekly_price" validate:"gte=0"`
	DepositAmount int64    `json:"deposit_amount" validate:"gte=0"`
	City          string   `json:"city" validate:"required"`
	Country       string   `json:"country" validate:"required"`
	Address       string   `json:"address"`
	ImageURLs     []string `json:"image_urls"`
}

func (h *EquipmentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	equipment := &domain.Equipment{
		OwnerID:       GetUserIDFromContext(r.Context()),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		DailyPrice:    req.DailyPrice,
		WeeklyPrice:   req.WeeklyPrice,
		DepositAmount: req.DepositAmount,
		City:          req.City,
		Country:       req.Country,
		Address:       req.Address,
	}
	if err := h.equipmentSvc.AddEquipment(r.Context(), equipment, req.ImageURLs); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, equipment)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.equipmentSvc.GetEquipment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	equipment := &domain.Equipment{
		ID:            mux.Vars(r)["id"],
		OwnerID:       GetUserIDFromContext(r.Context()),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		DailyPrice:    req.DailyPrice,
		WeeklyPrice:   req.WeeklyPrice,
		DepositAmount: req.DepositAmount,
		City:          req.City,
		Country:       req.Country,
		Address:       req.Address,
	}
	if err := h.equipmentSvc.UpdateEquipment(r.Context(), equipment); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

func (h *EquipmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	items, total, err := h.equipmentSvc.ListMyEquipment(r.Context(), GetUserIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePage(w, items, page, pageSize, total)
}

func (h *EquipmentHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	items, total, err := h.equipmentSvc.ListAvailableEquipment(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePage(w, items, page, pageSize, total)
}

func (h *EquipmentHandler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.equipmentSvc.SetPrimaryImage(r.Context(), GetUserIDFromContext(r.Context()), vars["id"], vars["imageId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
