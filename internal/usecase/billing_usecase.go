package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// GatewayProvider keys processed gateway callbacks.
const GatewayProvider = "gateway"

// settleAttempts bounds how often a lost UNPAID->PAID swap is re-evaluated.
const settleAttempts = 2

type BillingUsecase interface {
	MaterializeInvoice(ctx context.Context, recordID uuid.UUID) (*dto.InvoiceResponse, error)
	RecomputeInvoice(ctx context.Context, invoiceID uuid.UUID) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	GetInvoiceByRecord(ctx context.Context, recordID uuid.UUID) (*dto.InvoiceResponse, error)
	SetExaminationFee(ctx context.Context, id uuid.UUID, req *dto.SetExaminationFeeRequest) (*dto.InvoiceResponse, error)
	Settle(ctx context.Context, id uuid.UUID, req *dto.SettleInvoiceRequest) (*dto.InvoiceResponse, error)
	Refund(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	HandleGatewayCallback(ctx context.Context, req *dto.GatewayCallbackRequest) (*dto.GatewayCallbackResponse, error)
}

type billingUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	recordRepo   repository.CareRecordRepository
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
	callbackRepo repository.ProcessedCallbackRepository
	medicineRepo repository.MedicineRepository
	ledger       *invoiceLedger
	auditService service.AuditService
	metrics      *metrics.ClinicMetrics
}

func NewBillingUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	recordRepo repository.CareRecordRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	callbackRepo repository.ProcessedCallbackRepository,
	medicineRepo repository.MedicineRepository,
	auditService service.AuditService,
	metrics *metrics.ClinicMetrics,
	examinationFee decimal.Decimal,
	loc *time.Location,
) BillingUsecase {
	return &billingUsecase{
		log:          log,
		tx:           tx,
		recordRepo:   recordRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		callbackRepo: callbackRepo,
		medicineRepo: medicineRepo,
		ledger:       newInvoiceLedger(log, invoiceRepo, examinationFee, loc),
		auditService: auditService,
		metrics:      metrics,
	}
}

func (u *billingUsecase) MaterializeInvoice(ctx context.Context, recordID uuid.UUID) (*dto.InvoiceResponse, error) {
	actor := actorFromContext(ctx)

	var invoice *entity.Invoice
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := u.recordRepo.FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrRecordNotFound
		}

		invoice, err = u.ledger.materialize(ctx, record, actor)
		if errors.Is(err, errInvoiceSettled) {
			// Settled under us; a settled invoice is returned as it is.
			invoice, err = u.invoiceRepo.FindByRecordID(ctx, recordID)
		}
		if err != nil {
			return err
		}

		return u.auditService.LogUpdate(ctx, actor, entity.AuditActionInvoiceMaterialize,
			"invoice", invoice.ID.String(), nil,
			map[string]interface{}{"status": invoice.PaymentStatus, "total": invoice.TotalAmount})
	})
	if err != nil {
		return nil, err
	}

	return u.GetInvoice(ctx, invoice.ID)
}

func (u *billingUsecase) RecomputeInvoice(ctx context.Context, invoiceID uuid.UUID) (*dto.InvoiceResponse, error) {
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := u.invoiceRepo.FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return ErrInvoiceNotFound
		}
		if !invoice.IsUnpaid() {
			return fmt.Errorf("%w: invoice is %s", ErrInvalidInvoiceState, invoice.PaymentStatus)
		}

		record, err := u.recordRepo.FindByID(ctx, invoice.RecordID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrRecordNotFound
		}

		if _, err := u.ledger.recompute(ctx, invoice, record); err != nil {
			if errors.Is(err, errInvoiceSettled) {
				return fmt.Errorf("%w: invoice settled during recompute", ErrInvalidInvoiceState)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.GetInvoice(ctx, invoiceID)
}

func (u *billingUsecase) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := u.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find invoice %s: %+v", id, err)
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return u.respond(ctx, invoice)
}

func (u *billingUsecase) GetInvoiceByRecord(ctx context.Context, recordID uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := u.invoiceRepo.FindByRecordID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return u.respond(ctx, invoice)
}

func (u *billingUsecase) respond(ctx context.Context, invoice *entity.Invoice) (*dto.InvoiceResponse, error) {
	payment, err := u.paymentRepo.FindByInvoiceID(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	return converter.InvoiceToResponse(invoice, payment), nil
}

func (u *billingUsecase) SetExaminationFee(ctx context.Context, id uuid.UUID, req *dto.SetExaminationFeeRequest) (*dto.InvoiceResponse, error) {
	if req.ExaminationFee.IsNegative() {
		return nil, fmt.Errorf("%w: examination fee must not be negative", ErrInvalidInput)
	}

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := u.invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return ErrInvoiceNotFound
		}
		if !invoice.IsUnpaid() {
			return fmt.Errorf("%w: invoice is %s", ErrInvalidInvoiceState, invoice.PaymentStatus)
		}

		fees := invoice.Fees()
		fees.ExaminationFee = req.ExaminationFee
		n, err := u.invoiceRepo.UpdateFeesIfUnpaid(ctx, id, fees)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: invoice settled concurrently", ErrInvalidInvoiceState)
		}

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionInvoiceFee, "invoice", id.String(),
			map[string]interface{}{"examination_fee": invoice.ExaminationFee},
			map[string]interface{}{"examination_fee": req.ExaminationFee, "total": fees.Total()})
	})
	if err != nil {
		return nil, err
	}

	return u.GetInvoice(ctx, id)
}

func (u *billingUsecase) Settle(ctx context.Context, id uuid.UUID, req *dto.SettleInvoiceRequest) (*dto.InvoiceResponse, error) {
	method, err := entity.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	settlement := entity.Settlement{
		Method:            method,
		SettledBy:         actorFromContext(ctx),
		ExternalReference: req.ExternalReference,
		At:                time.Now(),
	}

	var invoice *entity.Invoice
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, _, err = u.settle(ctx, id, settlement, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return u.respond(ctx, invoice)
}

// settle applies one settlement inside the caller's transaction. The invoice
// row stays locked from the read until commit, so a concurrent fee edit
// either lands before the total is read or fails against PAID. A non-nil
// expected amount must equal that locked total. It reports replay=true when
// the invoice was already paid through the same path.
func (u *billingUsecase) settle(ctx context.Context, id uuid.UUID, s entity.Settlement, expected *decimal.Decimal) (*entity.Invoice, bool, error) {
	method := string(s.Method)

	for attempt := 0; attempt < settleAttempts; attempt++ {
		invoice, err := u.invoiceRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, false, err
		}
		if invoice == nil {
			return nil, false, ErrInvoiceNotFound
		}
		if expected != nil && !expected.Equal(invoice.TotalAmount) {
			u.metrics.ObserveSettlement(method, "amount_mismatch")
			return nil, false, fmt.Errorf("%w: paid %s, due %s", ErrAmountMismatch, expected, invoice.TotalAmount)
		}

		switch {
		case invoice.IsRefunded():
			u.metrics.ObserveSettlement(method, "rejected")
			return nil, false, fmt.Errorf("%w: invoice is %s", ErrInvalidInvoiceState, invoice.PaymentStatus)
		case invoice.IsPaid():
			if invoice.SettledBySame(s) {
				u.metrics.ObserveSettlement(method, "replay")
				return invoice, true, nil
			}
			u.metrics.ObserveSettlement(method, "already_paid")
			return nil, false, ErrAlreadyPaid
		}

		n, err := u.invoiceRepo.MarkPaid(ctx, id, s)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			continue
		}

		if err := u.dispense(ctx, invoice.RecordID); err != nil {
			return nil, false, err
		}

		payment := &entity.Payment{
			ID:                uuid.New(),
			InvoiceID:         id,
			Method:            s.Method,
			Amount:            invoice.TotalAmount,
			SettledBy:         s.SettledBy,
			ExternalReference: s.ExternalReference,
		}
		if err := u.paymentRepo.Create(ctx, payment); err != nil {
			u.log.Warnf("Failed to record payment for invoice %s: %+v", id, err)
			return nil, false, err
		}

		if err := u.auditService.LogUpdate(ctx, s.SettledBy, entity.AuditActionInvoiceSettle, "invoice", id.String(),
			map[string]interface{}{"status": invoice.PaymentStatus},
			map[string]interface{}{"status": entity.PaymentStatusPaid, "method": s.Method, "amount": invoice.TotalAmount}); err != nil {
			return nil, false, err
		}

		paid, err := u.invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return nil, false, err
		}

		u.metrics.ObserveSettlement(method, "paid")
		u.log.Infof("Invoice %s settled: method=%s, amount=%s", id, s.Method, invoice.TotalAmount)
		return paid, false, nil
	}

	return nil, false, fmt.Errorf("%w: invoice changed concurrently", ErrInvalidInvoiceState)
}

// dispense takes each prescribed quantity out of stock once. Money has
// already moved, so a shortfall is logged rather than refused.
func (u *billingUsecase) dispense(ctx context.Context, recordID uuid.UUID) error {
	record, err := u.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}

	for _, line := range record.Prescriptions {
		left, err := u.medicineRepo.DecrementStock(ctx, line.MedicineID, line.Quantity)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				u.log.Warnf("Medicine %s on record %s no longer exists, stock not adjusted", line.MedicineID, recordID)
				continue
			}
			return err
		}
		if left < 0 {
			u.log.Warnf("Medicine %s stock is negative after dispensing: %d", line.MedicineID, left)
		}
	}
	return nil
}

func (u *billingUsecase) Refund(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := u.invoiceRepo.MarkRefunded(ctx, id, time.Now())
		if err != nil {
			return err
		}
		if n == 0 {
			invoice, err := u.invoiceRepo.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if invoice == nil {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("%w: invoice is %s", ErrInvalidInvoiceState, invoice.PaymentStatus)
		}

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionInvoiceRefund, "invoice", id.String(),
			map[string]interface{}{"status": entity.PaymentStatusPaid},
			map[string]interface{}{"status": entity.PaymentStatusRefunded})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Invoice %s refunded", id)
	return u.GetInvoice(ctx, id)
}

// HandleGatewayCallback applies a payment gateway notification once per
// external reference.
func (u *billingUsecase) HandleGatewayCallback(ctx context.Context, req *dto.GatewayCallbackRequest) (*dto.GatewayCallbackResponse, error) {
	reference := req.ExternalOrderReference
	settlement := entity.Settlement{
		Method:            entity.PaymentMethodGateway,
		ExternalReference: &reference,
		At:                time.Now(),
	}

	response := &dto.GatewayCallbackResponse{Acknowledged: true}
	var invoice *entity.Invoice
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		processed, err := u.callbackRepo.AlreadyProcessed(ctx, GatewayProvider, reference)
		if err != nil {
			return err
		}
		if processed {
			invoice, err = u.invoiceRepo.FindByID(ctx, req.InvoiceID)
			if err != nil {
				return err
			}
			if invoice == nil {
				return ErrInvoiceNotFound
			}
			if invoice.ExternalReference == nil || *invoice.ExternalReference != reference {
				return fmt.Errorf("%w: reference %s settled another invoice", ErrReferenceConflict, reference)
			}
			response.Duplicate = true
			return nil
		}

		var replay bool
		invoice, replay, err = u.settle(ctx, req.InvoiceID, settlement, &req.AmountPaid)
		if err != nil {
			return err
		}

		first, err := u.callbackRepo.MarkProcessed(ctx, GatewayProvider, reference)
		if err != nil {
			return err
		}
		response.Duplicate = replay || !first
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAmountMismatch) || errors.Is(err, ErrReferenceConflict) {
			u.log.Warnf("Gateway callback %s rejected: %v", reference, err)
		}
		return nil, err
	}

	if invoice != nil {
		response.Invoice, err = u.respond(ctx, invoice)
		if err != nil {
			return nil, err
		}
	}
	return response, nil
}
