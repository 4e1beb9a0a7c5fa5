package entity

import (
	"time"

	"github.com/google/uuid"
)

// Staff is any clinic employee that can own shifts or act on episodes.
type Staff struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role           StaffRole `gorm:"type:varchar(20);not null;index" json:"role"`
	Specialization string    `gorm:"type:varchar(100)" json:"specialization,omitempty"`
	IsActive       bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

// CanExamine reports whether the staff member may start an examination.
func (s *Staff) CanExamine() bool {
	return s.IsActive && s.Role == StaffRoleDoctor
}

// Patient is the person being booked, received and billed.
type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string     `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Phone       string     `gorm:"type:varchar(30);index" json:"phone,omitempty"`
	Gender      string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}
