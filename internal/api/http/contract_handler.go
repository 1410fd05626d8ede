package http

import (
	"fmt"
	"net/http"

	"equiprent-backend/internal/contract"
	"equiprent-backend/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ContractHandler struct {
	pipeline *contract.Pipeline
	validate *validator.Validate
}

func NewContractHandler(pipeline *contract.Pipeline, validate *validator.Validate) *ContractHandler {
	return &ContractHandler{pipeline: pipeline, validate: validate}
}

type signContractRequest struct {
	Signature string `json:"signature" validate:"required"`
	Party     string `json:"party" validate:"required,oneof=renter owner"`
}

type downloadContractRequest struct {
	Filename string `json:"filename"`
}

func (h *ContractHandler) Generate(w http.ResponseWriter, r *http.Request) {
	url, err := h.pipeline.Generate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"document_url": url})
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.pipeline.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *ContractHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req signContractRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	doc, err := h.pipeline.Sign(r.Context(), mux.Vars(r)["id"], req.Signature, domain.SignatoryParty(req.Party))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *ContractHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req downloadContractRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	bookingID := mux.Vars(r)["id"]

	doc, err := h.pipeline.Get(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = fmt.Sprintf("contract-%s.pdf", bookingID)
	}
	if err := h.pipeline.Download(r.Context(), doc.DocumentURL, filename); err != nil {
		writeError(w, http.StatusBadGateway, "download_failed", "could not fetch the document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": filename})
}
