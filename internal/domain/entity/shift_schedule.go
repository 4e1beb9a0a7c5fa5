package entity

import (
	"time"

	"github.com/google/uuid"
)

// ShiftSchedule is one labelled working window of a staff member on a date.
// Slots are generated from it by splitting [StartTime, EndTime) into
// SlotMinutes-long intervals.
type ShiftSchedule struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_shift_key,priority:1" json:"staff_id"`
	WorkDate    time.Time   `gorm:"type:date;not null;uniqueIndex:idx_shift_key,priority:2" json:"work_date"`
	Label       ShiftLabel  `gorm:"type:varchar(20);not null;uniqueIndex:idx_shift_key,priority:3" json:"label"`
	StartTime   string      `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string      `gorm:"type:varchar(5);not null" json:"end_time"`
	SlotMinutes int         `gorm:"not null" json:"slot_minutes"`
	Status      ShiftStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Staff Staff  `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Slots []Slot `gorm:"foreignKey:ShiftID" json:"slots,omitempty"`
}

func (ShiftSchedule) TableName() string {
	return "shift_schedules"
}

func (s *ShiftSchedule) IsActive() bool {
	return s.Status == ShiftStatusActive
}

// ScheduleTemplate is a recurring weekly shift used to materialise
// ShiftSchedules ahead of time.
type ScheduleTemplate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_template_key,priority:1" json:"staff_id"`
	Weekday     Weekday    `gorm:"type:smallint;not null;uniqueIndex:idx_template_key,priority:2" json:"weekday"`
	Label       ShiftLabel `gorm:"type:varchar(20);not null;uniqueIndex:idx_template_key,priority:3" json:"label"`
	StartTime   string     `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string     `gorm:"type:varchar(5);not null" json:"end_time"`
	SlotMinutes int        `gorm:"not null" json:"slot_minutes"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleTemplate) TableName() string {
	return "schedule_templates"
}
