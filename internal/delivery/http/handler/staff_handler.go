package handler

import (
	"net/http"
	"strconv"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

// Me returns the staff member behind the bearer token.
func (h *StaffHandler) Me(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Staff not found in token")
		return
	}

	staff, err := h.staffUsecase.GetStaff(r.Context(), staffID)
	if err != nil {
		writeError(w, err, "Failed to get current staff")
		return
	}

	response.Success(w, http.StatusOK, "Current staff retrieved successfully", staff)
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaffRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	staff, err := h.staffUsecase.CreateStaff(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create staff")
		return
	}

	response.Success(w, http.StatusCreated, "Staff created successfully", staff)
}

func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "staff")
	if !ok {
		return
	}

	staff, err := h.staffUsecase.GetStaff(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get staff")
		return
	}

	response.Success(w, http.StatusOK, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffUsecase.ListStaff(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err, "Failed to get staff")
		return
	}

	response.Success(w, http.StatusOK, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.staffUsecase.CreatePatient(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

func (h *StaffHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.staffUsecase.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *StaffHandler) SearchPatients(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	patients, err := h.staffUsecase.SearchPatients(r.Context(), r.URL.Query().Get("name"), limit)
	if err != nil {
		writeError(w, err, "Failed to search patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}
