package entity

import (
	"time"

	"github.com/google/uuid"
)

// Appointment binds a patient to exactly one slot.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	StaffID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"staff_id"`
	SlotID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"slot_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:varchar(5);not null" json:"appointment_time"`
	StartsAt        time.Time         `gorm:"not null;index" json:"starts_at"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Note            string            `gorm:"type:text" json:"note,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Staff   Staff   `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// appointmentTransitions lists the moves reachable through user action.
// SCHEDULED->NOSHOW is deliberately absent: only the sweep may do it.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted},
}

// CanTransitionTo checks the user-facing transition table.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists.
func (a *Appointment) IsTerminal() bool {
	return len(appointmentTransitions[a.Status]) == 0
}

func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}
