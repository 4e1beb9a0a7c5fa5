package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CheckInRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" validate:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
}

// Response DTOs

type ReceptionResponse struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	PatientName    string     `json:"patient_name,omitempty"`
	ReceptionistID uuid.UUID  `json:"receptionist_id"`
	AppointmentID  *uuid.UUID `json:"appointment_id,omitempty"`
	Date           string     `json:"date"`
	QueueNumber    int        `json:"queue_number"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
