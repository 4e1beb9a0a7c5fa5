package memory

import (
	"context"
	"slices"
	"time"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

type invoiceRepository struct{ s *Store }

func (s *Store) Invoices() domainRepo.InvoiceRepository { return invoiceRepository{s} }

func (r invoiceRepository) CreateIfAbsent(ctx context.Context, invoice *entity.Invoice) (bool, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.t.invoices {
		if existing.RecordID == invoice.RecordID {
			return false, nil
		}
		if existing.ID == invoice.ID {
			return false, domainRepo.ErrDuplicateKey
		}
	}
	stamp(&invoice.CreatedAt, &invoice.UpdatedAt)
	r.s.t.invoices[invoice.ID] = *invoice
	return true, nil
}

func (r invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	defer r.s.lock(ctx)()
	inv, ok := r.s.t.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

// FindByIDForUpdate needs no extra lock: the store already serialises
// transactions.
func (r invoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r invoiceRepository) FindByRecordID(ctx context.Context, recordID uuid.UUID) (*entity.Invoice, error) {
	defer r.s.lock(ctx)()
	for _, inv := range r.s.t.invoices {
		if inv.RecordID == recordID {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r invoiceRepository) UpdateFeesIfUnpaid(ctx context.Context, id uuid.UUID, fees entity.InvoiceFees) (int64, error) {
	defer r.s.lock(ctx)()
	inv, ok := r.s.t.invoices[id]
	if !ok || !inv.IsUnpaid() {
		return 0, nil
	}
	inv.ApplyFees(fees)
	stamp(nil, &inv.UpdatedAt)
	r.s.t.invoices[id] = inv
	return 1, nil
}

func (r invoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, s entity.Settlement) (int64, error) {
	defer r.s.lock(ctx)()
	inv, ok := r.s.t.invoices[id]
	if !ok || !inv.IsUnpaid() {
		return 0, nil
	}
	method := s.Method
	at := s.At
	inv.PaymentStatus = entity.PaymentStatusPaid
	inv.PaymentMethod = &method
	inv.SettledBy = s.SettledBy
	inv.ExternalReference = s.ExternalReference
	inv.PaidAt = &at
	stamp(nil, &inv.UpdatedAt)
	r.s.t.invoices[id] = inv
	return 1, nil
}

func (r invoiceRepository) MarkRefunded(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	defer r.s.lock(ctx)()
	inv, ok := r.s.t.invoices[id]
	if !ok || !inv.IsPaid() {
		return 0, nil
	}
	inv.PaymentStatus = entity.PaymentStatusRefunded
	inv.RefundedAt = &at
	stamp(nil, &inv.UpdatedAt)
	r.s.t.invoices[id] = inv
	return 1, nil
}

type paymentRepository struct{ s *Store }

func (s *Store) Payments() domainRepo.PaymentRepository { return paymentRepository{s} }

func (r paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.payments[payment.InvoiceID]; ok {
		return domainRepo.ErrDuplicateKey
	}
	stamp(&payment.CreatedAt, nil)
	r.s.t.payments[payment.InvoiceID] = *payment
	return nil
}

func (r paymentRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Payment, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.t.payments[invoiceID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type processedCallbackRepository struct{ s *Store }

func (s *Store) Callbacks() domainRepo.ProcessedCallbackRepository {
	return processedCallbackRepository{s}
}

func (r processedCallbackRepository) AlreadyProcessed(ctx context.Context, provider, reference string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.t.callbacks[callbackKey{provider, reference}]
	return ok, nil
}

func (r processedCallbackRepository) MarkProcessed(ctx context.Context, provider, reference string) (bool, error) {
	defer r.s.lock(ctx)()
	key := callbackKey{provider, reference}
	if _, ok := r.s.t.callbacks[key]; ok {
		return false, nil
	}
	r.s.t.callbacks[key] = time.Now()
	return true, nil
}

type auditLogRepository struct{ s *Store }

func (s *Store) AuditLogs() domainRepo.AuditLogRepository { return auditLogRepository{s} }

func (r auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	defer r.s.lock(ctx)()
	r.s.t.auditSeq++
	log.ID = r.s.t.auditSeq
	stamp(&log.CreatedAt, nil)
	r.s.t.audit = append(slices.Clip(r.s.t.audit), *log)
	return nil
}

func (r auditLogRepository) FindAll(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	defer r.s.lock(ctx)()
	var out []entity.AuditLog
	for i := len(r.s.t.audit) - 1; i >= 0; i-- {
		l := r.s.t.audit[i]
		if filter.EntityName != "" && l.EntityName != filter.EntityName {
			continue
		}
		if filter.EntityID != "" && l.EntityID != filter.EntityID {
			continue
		}
		out = append(out, l)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	defer r.s.lock(ctx)()
	for _, l := range r.s.t.audit {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}
