package repository

import (
	"context"
	"time"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	// CreateIfAbsent inserts the invoice unless its record already has one,
	// reporting whether the row was written.
	CreateIfAbsent(ctx context.Context, invoice *entity.Invoice) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// FindByIDForUpdate reads the invoice and holds its row lock until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	FindByRecordID(ctx context.Context, recordID uuid.UUID) (*entity.Invoice, error)
	// UpdateFeesIfUnpaid rewrites the fee columns only while UNPAID.
	UpdateFeesIfUnpaid(ctx context.Context, id uuid.UUID, fees entity.InvoiceFees) (int64, error)
	// MarkPaid is the UNPAID->PAID compare-and-swap.
	MarkPaid(ctx context.Context, id uuid.UUID, s entity.Settlement) (int64, error)
	// MarkRefunded is the PAID->REFUNDED compare-and-swap.
	MarkRefunded(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Payment, error)
}

// ProcessedCallbackRepository tracks gateway deliveries already applied.
type ProcessedCallbackRepository interface {
	AlreadyProcessed(ctx context.Context, provider, reference string) (bool, error)
	// MarkProcessed returns true on the first delivery of (provider, reference).
	MarkProcessed(ctx context.Context, provider, reference string) (bool, error)
}
