package handler

import (
	"errors"
	"net/http"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{usecase.ErrStaffNotFound, http.StatusNotFound, "STAFF_NOT_FOUND"},
	{usecase.ErrPatientNotFound, http.StatusNotFound, "PATIENT_NOT_FOUND"},
	{usecase.ErrShiftNotFound, http.StatusNotFound, "SHIFT_NOT_FOUND"},
	{usecase.ErrAppointmentNotFound, http.StatusNotFound, "APPOINTMENT_NOT_FOUND"},
	{usecase.ErrReceptionNotFound, http.StatusNotFound, "RECEPTION_NOT_FOUND"},
	{usecase.ErrRecordNotFound, http.StatusNotFound, "RECORD_NOT_FOUND"},
	{usecase.ErrLineNotFound, http.StatusNotFound, "LINE_NOT_FOUND"},
	{usecase.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
	{usecase.ErrMedicineNotFound, http.StatusNotFound, "MEDICINE_NOT_FOUND"},
	{usecase.ErrServiceNotFound, http.StatusNotFound, "SERVICE_NOT_FOUND"},
	{usecase.ErrAuditLogNotFound, http.StatusNotFound, "AUDIT_LOG_NOT_FOUND"},

	{usecase.ErrSlotUnavailable, http.StatusConflict, "SLOT_UNAVAILABLE"},
	{usecase.ErrInvalidStateTransition, http.StatusConflict, "INVALID_STATE_TRANSITION"},
	{usecase.ErrAlreadyCheckedIn, http.StatusConflict, "ALREADY_CHECKED_IN"},
	{usecase.ErrAlreadyStarted, http.StatusConflict, "ALREADY_STARTED"},
	{usecase.ErrInvalidInvoiceState, http.StatusConflict, "INVALID_INVOICE_STATE"},
	{usecase.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID"},
	{usecase.ErrReferenceConflict, http.StatusConflict, "REFERENCE_CONFLICT"},
	{usecase.ErrShiftOverlap, http.StatusConflict, "SHIFT_OVERLAP"},
	{usecase.ErrShiftInUse, http.StatusConflict, "SHIFT_IN_USE"},
	{usecase.ErrShiftInactive, http.StatusConflict, "SHIFT_INACTIVE"},
	{usecase.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},

	{usecase.ErrRecordLocked, http.StatusLocked, "RECORD_LOCKED"},

	{usecase.ErrConfiguration, http.StatusUnprocessableEntity, "CONFIGURATION_ERROR"},
	{usecase.ErrAppointmentNotConfirmed, http.StatusUnprocessableEntity, "APPOINTMENT_NOT_CONFIRMED"},
	{usecase.ErrAppointmentPatientMismatch, http.StatusUnprocessableEntity, "APPOINTMENT_PATIENT_MISMATCH"},
	{usecase.ErrNotClinician, http.StatusUnprocessableEntity, "NOT_CLINICIAN"},
	{usecase.ErrInvalidLine, http.StatusUnprocessableEntity, "INVALID_LINE"},
	{usecase.ErrAmountMismatch, http.StatusUnprocessableEntity, "AMOUNT_MISMATCH"},

	{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{entity.ErrInvalidEnum, http.StatusBadRequest, "INVALID_ENUM"},
}

// writeError maps a usecase error onto the envelope. Anything unrecognised is
// an infrastructure failure and is reported with the fallback message only.
func writeError(w http.ResponseWriter, err error, fallback string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Fail(w, m.status, m.code, err.Error())
			return
		}
	}
	response.InternalServerError(w, fallback)
}
