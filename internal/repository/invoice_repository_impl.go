package repository

import (
	"context"
	"errors"
	"time"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// CreateIfAbsent uses ON CONFLICT DO NOTHING so a lost race does not abort
// the surrounding transaction.
func (r *invoiceRepository) CreateIfAbsent(ctx context.Context, invoice *entity.Invoice) (bool, error) {
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "record_id"}}, DoNothing: true}).
		Create(invoice)
	return result.RowsAffected == 1, result.Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByRecordID(ctx context.Context, recordID uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Where("record_id = ?", recordID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) UpdateFeesIfUnpaid(ctx context.Context, id uuid.UUID, fees entity.InvoiceFees) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentStatusUnpaid).
		Updates(map[string]interface{}{
			"examination_fee": fees.ExaminationFee,
			"medicine_fee":    fees.MedicineFee,
			"service_fee":     fees.ServiceFee,
			"total_amount":    fees.Total(),
		})
	return result.RowsAffected, result.Error
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, s entity.Settlement) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentStatusUnpaid).
		Updates(map[string]interface{}{
			"payment_status":     entity.PaymentStatusPaid,
			"payment_method":     s.Method,
			"settled_by":         s.SettledBy,
			"external_reference": s.ExternalReference,
			"paid_at":            s.At,
		})
	return result.RowsAffected, result.Error
}

func (r *invoiceRepository) MarkRefunded(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": entity.PaymentStatusRefunded,
			"refunded_at":    at,
		})
	return result.RowsAffected, result.Error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return translate(conn(ctx, r.db).Create(payment).Error)
}

func (r *paymentRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := conn(ctx, r.db).Where("invoice_id = ?", invoiceID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

type processedCallbackRepository struct {
	db *gorm.DB
}

func NewProcessedCallbackRepository(db *gorm.DB) domainRepo.ProcessedCallbackRepository {
	return &processedCallbackRepository{db: db}
}

func (r *processedCallbackRepository) AlreadyProcessed(ctx context.Context, provider, reference string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.ProcessedCallback{}).
		Where("provider = ? AND reference = ?", provider, reference).
		Count(&count).Error
	return count > 0, err
}

func (r *processedCallbackRepository) MarkProcessed(ctx context.Context, provider, reference string) (bool, error) {
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.ProcessedCallback{Provider: provider, Reference: reference, ProcessedAt: time.Now()})
	return result.RowsAffected == 1, result.Error
}
