package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"equiprent-backend/internal/contract"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/security"
	"equiprent-backend/internal/service"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type pageMeta struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int32 `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

func writePage(w http.ResponseWriter, data interface{}, page, pageSize, total int32) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"meta": pageMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

// writeServiceError maps known domain errors to HTTP statuses; anything
// unrecognized is a 500 with the detail kept out of the response body.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrNotEquipmentOwner):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrEquipmentUnavailable):
		writeError(w, http.StatusConflict, "equipment_unavailable", err.Error())
	case errors.Is(err, service.ErrBookingNotPending):
		writeError(w, http.StatusConflict, "booking_not_pending", err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
	case errors.Is(err, contract.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, contract.ErrContractNotFound):
		writeError(w, http.StatusNotFound, "contract_not_found", err.Error())
	case errors.Is(err, contract.ErrUnknownParty), errors.Is(err, contract.ErrEmptySignature):
		writeError(w, http.StatusBadRequest, "invalid_signature", err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "the requested record does not exist")
	case errors.Is(err, security.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "token_expired", err.Error())
	case errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrWrongTokenType):
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	default:
		logger.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "an internal error occurred")
	}
}
