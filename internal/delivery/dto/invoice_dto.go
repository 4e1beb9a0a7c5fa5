package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SettleInvoiceRequest struct {
	PaymentMethod     string  `json:"payment_method" validate:"required"`
	ExternalReference *string `json:"external_reference" validate:"omitempty,max=255"`
}

type SetExaminationFeeRequest struct {
	ExaminationFee decimal.Decimal `json:"examination_fee" validate:"gte=0"`
}

type GatewayCallbackRequest struct {
	InvoiceID              uuid.UUID       `json:"invoice_id" validate:"required"`
	ExternalOrderReference string          `json:"external_order_reference" validate:"required,max=255"`
	AmountPaid             decimal.Decimal `json:"amount_paid" validate:"gte=0"`
}

// Response DTOs

type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	Method            string          `json:"method"`
	Amount            decimal.Decimal `json:"amount"`
	SettledBy         *uuid.UUID      `json:"settled_by,omitempty"`
	ExternalReference *string         `json:"external_reference,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type InvoiceResponse struct {
	ID                uuid.UUID        `json:"id"`
	RecordID          uuid.UUID        `json:"record_id"`
	PatientID         uuid.UUID        `json:"patient_id"`
	InvoiceDate       string           `json:"invoice_date"`
	ExaminationFee    decimal.Decimal  `json:"examination_fee"`
	MedicineFee       decimal.Decimal  `json:"medicine_fee"`
	ServiceFee        decimal.Decimal  `json:"service_fee"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	PaymentMethod     *string          `json:"payment_method,omitempty"`
	PaymentStatus     string           `json:"payment_status"`
	IssuedByStaffID   *uuid.UUID       `json:"issued_by_staff_id,omitempty"`
	SettledBy         *uuid.UUID       `json:"settled_by,omitempty"`
	ExternalReference *string          `json:"external_reference,omitempty"`
	PaidAt            *time.Time       `json:"paid_at,omitempty"`
	RefundedAt        *time.Time       `json:"refunded_at,omitempty"`
	Payment           *PaymentResponse `json:"payment,omitempty"`
}

type GatewayCallbackResponse struct {
	Acknowledged bool             `json:"acknowledged"`
	Duplicate    bool             `json:"duplicate"`
	Invoice      *InvoiceResponse `json:"invoice,omitempty"`
}
