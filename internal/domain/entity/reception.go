package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reception is one patient visit, from intake until the examination is done.
type Reception struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	ReceptionistID uuid.UUID       `gorm:"type:uuid;not null" json:"receptionist_id"`
	AppointmentID  *uuid.UUID      `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	ReceptionDate  time.Time       `gorm:"type:date;not null;index" json:"reception_date"`
	QueueNumber    int             `gorm:"not null" json:"queue_number"`
	Status         ReceptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Reception) TableName() string {
	return "receptions"
}

func (r *Reception) IsWalkIn() bool {
	return r.AppointmentID == nil
}

// HasStarted reports whether the examination was already opened.
func (r *Reception) HasStarted() bool {
	return r.Status == ReceptionStatusInExamination || r.Status == ReceptionStatusDone
}
