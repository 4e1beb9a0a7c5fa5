package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is a dispensable item. Stock is decremented when an invoice that
// prescribes it is settled.
type Medicine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Unit      string          `gorm:"type:varchar(30)"`
	SalePrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Stock     int             `gorm:"not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// ClinicService is a billable procedure or test.
type ClinicService struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (ClinicService) TableName() string {
	return "clinic_services"
}
