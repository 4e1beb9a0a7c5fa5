package usecase

import (
	"context"
	"errors"

	"clinic-operations/internal/delivery/http/middleware"

	"github.com/google/uuid"
)

// Business rule violations. Wrapped with fmt.Errorf("%w: ...") when context
// helps; callers match with errors.Is.
var (
	ErrConfiguration              = errors.New("invalid schedule configuration")
	ErrInvalidInput               = errors.New("invalid input")
	ErrSlotUnavailable            = errors.New("slot is not available")
	ErrInvalidStateTransition     = errors.New("invalid state transition")
	ErrAppointmentNotConfirmed    = errors.New("appointment is not confirmed")
	ErrAppointmentPatientMismatch = errors.New("appointment belongs to another patient")
	ErrAlreadyCheckedIn           = errors.New("appointment is already checked in")
	ErrAlreadyStarted             = errors.New("examination already started")
	ErrNotClinician               = errors.New("staff member cannot examine patients")
	ErrRecordLocked               = errors.New("record is locked by a settled invoice")
	ErrInvalidLine                = errors.New("invalid line item")
	ErrInvalidInvoiceState        = errors.New("invalid invoice state")
	ErrAlreadyPaid                = errors.New("invoice is already paid")
	ErrAmountMismatch             = errors.New("paid amount does not match invoice total")
	ErrReferenceConflict          = errors.New("payment reference already used")
	ErrShiftOverlap               = errors.New("shift overlaps an existing shift")
	ErrShiftInUse                 = errors.New("shift has booked slots")
	ErrShiftInactive              = errors.New("shift is inactive")
	ErrDuplicateEmail             = errors.New("email already registered")
)

// Lookups that found nothing.
var (
	ErrStaffNotFound       = errors.New("staff not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrShiftNotFound       = errors.New("shift not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrReceptionNotFound   = errors.New("reception not found")
	ErrRecordNotFound      = errors.New("care record not found")
	ErrLineNotFound        = errors.New("line item not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrMedicineNotFound    = errors.New("medicine not found")
	ErrServiceNotFound     = errors.New("clinic service not found")
	ErrAuditLogNotFound    = errors.New("audit log not found")
)

// actorFromContext returns the authenticated staff id, or nil for system
// callers such as cron jobs.
func actorFromContext(ctx context.Context) *uuid.UUID {
	id, ok := middleware.GetStaffIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}
