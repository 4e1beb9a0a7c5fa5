package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotFilter is a domain-level filter for querying slots.
// Zero values mean "no constraint".
type SlotFilter struct {
	StaffID uuid.UUID
	From    time.Time
	To      time.Time
	Status  SlotStatus
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	Status      AppointmentStatus
	From        time.Time
	To          time.Time
	StaffID     uuid.UUID
	PatientName string // case-insensitive substring
}

// ReceptionFilter narrows reception listings.
type ReceptionFilter struct {
	Status ReceptionStatus
	Date   time.Time
}

type AuditLogFilter struct {
	EntityName string
	EntityID   string
	Limit      int
}
