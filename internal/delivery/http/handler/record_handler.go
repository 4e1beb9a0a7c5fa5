package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type RecordHandler struct {
	recordUsecase usecase.CareRecordUsecase
	validator     *validator.CustomValidator
}

func NewRecordHandler(recordUsecase usecase.CareRecordUsecase, validator *validator.CustomValidator) *RecordHandler {
	return &RecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	record, err := h.recordUsecase.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get record")
		return
	}

	response.Success(w, http.StatusOK, "Record retrieved successfully", record)
}

func (h *RecordHandler) GetRecordByReception(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reception")
	if !ok {
		return
	}

	record, err := h.recordUsecase.GetRecordByReception(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get record")
		return
	}

	response.Success(w, http.StatusOK, "Record retrieved successfully", record)
}

func (h *RecordHandler) UpdateClinicalNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	var req dto.UpdateClinicalNotesRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.UpdateClinicalNotes(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update clinical notes")
		return
	}

	response.Success(w, http.StatusOK, "Clinical notes updated successfully", record)
}

func (h *RecordHandler) AddPrescriptionLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	var req dto.PrescriptionLineRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.AddPrescriptionLine(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to add prescription line")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription line added", record)
}

func (h *RecordHandler) RemovePrescriptionLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "lineId", "line")
	if !ok {
		return
	}

	record, err := h.recordUsecase.RemovePrescriptionLine(r.Context(), id, lineID)
	if err != nil {
		writeError(w, err, "Failed to remove prescription line")
		return
	}

	response.Success(w, http.StatusOK, "Prescription line removed", record)
}

func (h *RecordHandler) ReplacePrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	var req dto.ReplacePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.ReplacePrescription(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to replace prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription replaced", record)
}

func (h *RecordHandler) AddServiceLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	var req dto.ServiceLineRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.AddServiceLine(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to add service line")
		return
	}

	response.Success(w, http.StatusCreated, "Service line added", record)
}

func (h *RecordHandler) RemoveServiceLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "lineId", "line")
	if !ok {
		return
	}

	record, err := h.recordUsecase.RemoveServiceLine(r.Context(), id, lineID)
	if err != nil {
		writeError(w, err, "Failed to remove service line")
		return
	}

	response.Success(w, http.StatusOK, "Service line removed", record)
}

// ReplaceServices accepts either "services" or the compact "ordered_services"
// text.
func (h *RecordHandler) ReplaceServices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	var req dto.ReplaceServicesRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.ReplaceServices(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to replace services")
		return
	}

	response.Success(w, http.StatusOK, "Services replaced", record)
}
