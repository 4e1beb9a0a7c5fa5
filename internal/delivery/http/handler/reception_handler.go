package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type ReceptionHandler struct {
	receptionUsecase usecase.ReceptionUsecase
	validator        *validator.CustomValidator
}

func NewReceptionHandler(receptionUsecase usecase.ReceptionUsecase, validator *validator.CustomValidator) *ReceptionHandler {
	return &ReceptionHandler{
		receptionUsecase: receptionUsecase,
		validator:        validator,
	}
}

// CheckIn registers the patient at the desk. The receptionist is the caller.
func (h *ReceptionHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Staff not found in token")
		return
	}

	var req dto.CheckInRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reception, err := h.receptionUsecase.CheckIn(r.Context(), staffID, &req)
	if err != nil {
		writeError(w, err, "Failed to check in patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient checked in successfully", reception)
}

func (h *ReceptionHandler) GetReception(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reception")
	if !ok {
		return
	}

	reception, err := h.receptionUsecase.GetReception(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get reception")
		return
	}

	response.Success(w, http.StatusOK, "Reception retrieved successfully", reception)
}

func (h *ReceptionHandler) ListReceptions(w http.ResponseWriter, r *http.Request) {
	var filter entity.ReceptionFilter
	var ok bool
	if filter.Date, ok = queryDate(w, r, "date"); !ok {
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := entity.ParseReceptionStatus(raw)
		if err != nil {
			writeError(w, err, "Failed to get receptions")
			return
		}
		filter.Status = status
	}

	receptions, err := h.receptionUsecase.ListReceptions(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get receptions")
		return
	}

	response.Success(w, http.StatusOK, "Receptions retrieved successfully", receptions)
}

// StartExamination opens the care record. The examining doctor is the caller.
func (h *ReceptionHandler) StartExamination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reception")
	if !ok {
		return
	}
	doctorID, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Staff not found in token")
		return
	}

	record, err := h.receptionUsecase.StartExamination(r.Context(), id, doctorID)
	if err != nil {
		writeError(w, err, "Failed to start examination")
		return
	}

	response.Success(w, http.StatusCreated, "Examination started", record)
}

func (h *ReceptionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reception")
	if !ok {
		return
	}

	reception, err := h.receptionUsecase.Complete(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to complete reception")
		return
	}

	response.Success(w, http.StatusOK, "Reception completed", reception)
}

func (h *ReceptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reception")
	if !ok {
		return
	}

	reception, err := h.receptionUsecase.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to cancel reception")
		return
	}

	response.Success(w, http.StatusOK, "Reception cancelled", reception)
}
