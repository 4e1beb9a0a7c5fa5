package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	StaffID   uuid.UUID `json:"staff_id" validate:"required"`
	Date      string    `json:"date" validate:"required,ymd"`
	Time      string    `json:"time" validate:"required,clock"`
	Note      string    `json:"note" validate:"max=1000"`
}

type ChangeAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type SweepNoShowsRequest struct {
	Cutoff *time.Time `json:"cutoff"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	StaffID     uuid.UUID `json:"staff_id"`
	StaffName   string    `json:"staff_name,omitempty"`
	SlotID      uuid.UUID `json:"slot_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	StartsAt    time.Time `json:"starts_at"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SweepNoShowsResponse struct {
	Cutoff       time.Time `json:"cutoff"`
	Transitioned int       `json:"transitioned"`
}
