package entity

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a single bookable interval of one staff member on one date.
// (StaffID, SlotDate, StartTime) is unique, so a slot that left AVAILABLE can
// never be regenerated.
type Slot struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_slot_key,priority:1" json:"staff_id"`
	ShiftID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"shift_id"`
	SlotDate  time.Time  `gorm:"type:date;not null;uniqueIndex:idx_slot_key,priority:2" json:"slot_date"`
	StartTime string     `gorm:"type:varchar(5);not null;uniqueIndex:idx_slot_key,priority:3" json:"start_time"`
	EndTime   string     `gorm:"type:varchar(5);not null" json:"end_time"`
	Status    SlotStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Slot) TableName() string {
	return "slots"
}

// IsAvailable checks if slot can still be booked
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}

// IsTouched reports whether the slot ever left AVAILABLE.
func (s *Slot) IsTouched() bool {
	return s.Status != SlotStatusAvailable
}
