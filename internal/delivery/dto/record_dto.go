package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// Quantities are checked by the record usecase so that a bad line always
// reports the same error kind, whichever endpoint received it.
type PrescriptionLineRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" validate:"required"`
	Quantity   int       `json:"quantity"`
	Dosage     string    `json:"dosage" validate:"max=255"`
	Days       int       `json:"days"`
}

type ReplacePrescriptionRequest struct {
	Lines []PrescriptionLineRequest `json:"lines" validate:"dive"`
}

type ServiceLineRequest struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

// ReplaceServicesRequest accepts either a structured list or the compact
// "id:qty,id:qty" form in OrderedServices. The list wins when both are set.
type ReplaceServicesRequest struct {
	Services        []ServiceLineRequest `json:"services" validate:"dive"`
	OrderedServices *string              `json:"ordered_services"`
}

type UpdateClinicalNotesRequest struct {
	Symptoms    string  `json:"symptoms"`
	Diagnosis   string  `json:"diagnosis"`
	DiseaseType *string `json:"disease_type" validate:"omitempty,max=100"`
	Notes       string  `json:"notes"`
}

// Response DTOs

type PrescriptionLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	MedicineID uuid.UUID       `json:"medicine_id"`
	Quantity   int             `json:"quantity"`
	Dosage     string          `json:"dosage,omitempty"`
	Days       int             `json:"days"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Amount     decimal.Decimal `json:"amount"`
}

type ServiceLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ServiceID uuid.UUID       `json:"service_id"`
	Quantity  int             `json:"quantity"`
	Position  int             `json:"position"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

type CareRecordResponse struct {
	ID              uuid.UUID                  `json:"id"`
	ReceptionID     uuid.UUID                  `json:"reception_id"`
	DoctorID        uuid.UUID                  `json:"doctor_id"`
	PatientID       uuid.UUID                  `json:"patient_id"`
	ExaminedAt      time.Time                  `json:"examined_at"`
	Symptoms        string                     `json:"symptoms"`
	Diagnosis       string                     `json:"diagnosis"`
	DiseaseType     *string                    `json:"disease_type,omitempty"`
	Notes           string                     `json:"notes"`
	Prescriptions   []PrescriptionLineResponse `json:"prescriptions"`
	Services        []ServiceLineResponse      `json:"services"`
	OrderedServices string                     `json:"ordered_services"`
	MedicineFee     decimal.Decimal            `json:"medicine_fee"`
	ServiceFee      decimal.Decimal            `json:"service_fee"`
	Invoice         *InvoiceResponse           `json:"invoice,omitempty"`
}
