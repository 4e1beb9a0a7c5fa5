package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// errInvoiceSettled means the UNPAID recompute lost to a settlement. Callers
// translate it into their own error kind.
var errInvoiceSettled = errors.New("invoice settled concurrently")

// invoiceLedger keeps an invoice in step with its record. It is shared by
// every usecase that can change what a record bills.
type invoiceLedger struct {
	log            *logrus.Logger
	invoiceRepo    repository.InvoiceRepository
	examinationFee decimal.Decimal
	loc            *time.Location
}

func newInvoiceLedger(log *logrus.Logger, invoiceRepo repository.InvoiceRepository, examinationFee decimal.Decimal, loc *time.Location) *invoiceLedger {
	return &invoiceLedger{log: log, invoiceRepo: invoiceRepo, examinationFee: examinationFee, loc: loc}
}

// materialize creates the record's invoice or recomputes it while UNPAID.
// PAID and REFUNDED invoices come back untouched. It must run inside the
// caller's transaction.
func (l *invoiceLedger) materialize(ctx context.Context, record *entity.CareEpisodeRecord, issuedBy *uuid.UUID) (*entity.Invoice, error) {
	invoice, err := l.invoiceRepo.FindByRecordID(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	if invoice == nil {
		invoice = &entity.Invoice{
			ID:              uuid.New(),
			RecordID:        record.ID,
			PatientID:       record.PatientID,
			InvoiceDate:     calendar.DateOf(time.Now(), l.loc),
			PaymentStatus:   entity.PaymentStatusUnpaid,
			IssuedByStaffID: issuedBy,
		}
		invoice.ApplyFees(entity.InvoiceFees{
			ExaminationFee: l.examinationFee,
			MedicineFee:    record.MedicineFee(),
			ServiceFee:     record.ServiceFee(),
		})

		created, err := l.invoiceRepo.CreateIfAbsent(ctx, invoice)
		if err != nil {
			l.log.Warnf("Failed to create invoice for record %s: %+v", record.ID, err)
			return nil, err
		}
		if created {
			l.log.Infof("Invoice %s issued for record %s, total=%s", invoice.ID, record.ID, invoice.TotalAmount)
			return invoice, nil
		}

		// Another caller created it first; fall through to recompute theirs.
		invoice, err = l.invoiceRepo.FindByRecordID(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		if invoice == nil {
			return nil, ErrInvoiceNotFound
		}
	}

	if !invoice.IsUnpaid() {
		return invoice, nil
	}
	return l.recompute(ctx, invoice, record)
}

// recompute rewrites medicine and service fees from the record, keeping the
// invoice's examination fee.
func (l *invoiceLedger) recompute(ctx context.Context, invoice *entity.Invoice, record *entity.CareEpisodeRecord) (*entity.Invoice, error) {
	fees := entity.InvoiceFees{
		ExaminationFee: invoice.ExaminationFee,
		MedicineFee:    record.MedicineFee(),
		ServiceFee:     record.ServiceFee(),
	}

	n, err := l.invoiceRepo.UpdateFeesIfUnpaid(ctx, invoice.ID, fees)
	if err != nil {
		l.log.Warnf("Failed to recompute invoice %s: %+v", invoice.ID, err)
		return nil, err
	}
	if n == 0 {
		return nil, errInvoiceSettled
	}

	updated := *invoice
	updated.ApplyFees(fees)
	return &updated, nil
}
