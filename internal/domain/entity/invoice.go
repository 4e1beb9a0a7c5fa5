package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is derived from a care episode record, one per record.
// TotalAmount is always ExaminationFee + MedicineFee + ServiceFee.
type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"record_id"`
	PatientID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	InvoiceDate       time.Time       `gorm:"type:date;not null;index" json:"invoice_date"`
	ExaminationFee    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"examination_fee"`
	MedicineFee       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"medicine_fee"`
	ServiceFee        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"service_fee"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	PaymentMethod     *PaymentMethod  `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	IssuedByStaffID   *uuid.UUID      `gorm:"type:uuid" json:"issued_by_staff_id,omitempty"`
	SettledBy         *uuid.UUID      `gorm:"type:uuid" json:"settled_by,omitempty"`
	ExternalReference *string         `gorm:"type:varchar(255)" json:"external_reference,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	RefundedAt        *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceFees is the recomputable part of an invoice.
type InvoiceFees struct {
	ExaminationFee decimal.Decimal
	MedicineFee    decimal.Decimal
	ServiceFee     decimal.Decimal
}

func (f InvoiceFees) Total() decimal.Decimal {
	return f.ExaminationFee.Add(f.MedicineFee).Add(f.ServiceFee)
}

// ApplyFees overwrites the fee components and keeps TotalAmount consistent.
func (i *Invoice) ApplyFees(f InvoiceFees) {
	i.ExaminationFee = f.ExaminationFee
	i.MedicineFee = f.MedicineFee
	i.ServiceFee = f.ServiceFee
	i.TotalAmount = f.Total()
}

func (i *Invoice) Fees() InvoiceFees {
	return InvoiceFees{ExaminationFee: i.ExaminationFee, MedicineFee: i.MedicineFee, ServiceFee: i.ServiceFee}
}

func (i *Invoice) IsUnpaid() bool {
	return i.PaymentStatus == PaymentStatusUnpaid
}

func (i *Invoice) IsPaid() bool {
	return i.PaymentStatus == PaymentStatusPaid
}

func (i *Invoice) IsRefunded() bool {
	return i.PaymentStatus == PaymentStatusRefunded
}

// LocksRecord reports whether the record behind this invoice is frozen.
func (i *Invoice) LocksRecord() bool {
	return !i.IsUnpaid()
}

// Settlement describes who paid an invoice and how.
type Settlement struct {
	Method            PaymentMethod
	SettledBy         *uuid.UUID
	ExternalReference *string
	At                time.Time
}

// SettledBySame reports whether a PAID invoice was paid through the same
// settlement context, which makes a replay a no-op.
func (i *Invoice) SettledBySame(s Settlement) bool {
	if !i.IsPaid() || i.PaymentMethod == nil || *i.PaymentMethod != s.Method {
		return false
	}
	if !sameUUID(i.SettledBy, s.SettledBy) {
		return false
	}
	if s.ExternalReference != nil {
		return i.ExternalReference != nil && *i.ExternalReference == *s.ExternalReference
	}
	return true
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Payment is written once, when an invoice moves to PAID.
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Method            PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Amount            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	SettledBy         *uuid.UUID      `gorm:"type:uuid" json:"settled_by,omitempty"`
	ExternalReference *string         `gorm:"type:varchar(255)" json:"external_reference,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// ProcessedCallback remembers gateway deliveries that were already applied.
type ProcessedCallback struct {
	Provider    string    `gorm:"type:varchar(50);primaryKey"`
	Reference   string    `gorm:"type:varchar(255);primaryKey"`
	ProcessedAt time.Time `gorm:"not null"`
}

func (ProcessedCallback) TableName() string {
	return "processed_callbacks"
}
