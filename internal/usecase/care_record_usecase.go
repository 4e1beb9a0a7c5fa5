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
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CareRecordUsecase interface {
	GetRecord(ctx context.Context, id uuid.UUID) (*dto.CareRecordResponse, error)
	GetRecordByReception(ctx context.Context, receptionID uuid.UUID) (*dto.CareRecordResponse, error)
	UpdateClinicalNotes(ctx context.Context, id uuid.UUID, req *dto.UpdateClinicalNotesRequest) (*dto.CareRecordResponse, error)

	AddPrescriptionLine(ctx context.Context, id uuid.UUID, req *dto.PrescriptionLineRequest) (*dto.CareRecordResponse, error)
	RemovePrescriptionLine(ctx context.Context, id, lineID uuid.UUID) (*dto.CareRecordResponse, error)
	ReplacePrescription(ctx context.Context, id uuid.UUID, req *dto.ReplacePrescriptionRequest) (*dto.CareRecordResponse, error)

	AddServiceLine(ctx context.Context, id uuid.UUID, req *dto.ServiceLineRequest) (*dto.CareRecordResponse, error)
	RemoveServiceLine(ctx context.Context, id, lineID uuid.UUID) (*dto.CareRecordResponse, error)
	ReplaceServices(ctx context.Context, id uuid.UUID, req *dto.ReplaceServicesRequest) (*dto.CareRecordResponse, error)
}

type careRecordUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	recordRepo   repository.CareRecordRepository
	medicineRepo repository.MedicineRepository
	serviceRepo  repository.ClinicServiceRepository
	invoiceRepo  repository.InvoiceRepository
	ledger       *invoiceLedger
	auditService service.AuditService
}

func NewCareRecordUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	recordRepo repository.CareRecordRepository,
	medicineRepo repository.MedicineRepository,
	serviceRepo repository.ClinicServiceRepository,
	invoiceRepo repository.InvoiceRepository,
	auditService service.AuditService,
	examinationFee decimal.Decimal,
	loc *time.Location,
) CareRecordUsecase {
	return &careRecordUsecase{
		log:          log,
		tx:           tx,
		recordRepo:   recordRepo,
		medicineRepo: medicineRepo,
		serviceRepo:  serviceRepo,
		invoiceRepo:  invoiceRepo,
		ledger:       newInvoiceLedger(log, invoiceRepo, examinationFee, loc),
		auditService: auditService,
	}
}

func (u *careRecordUsecase) GetRecord(ctx context.Context, id uuid.UUID) (*dto.CareRecordResponse, error) {
	record, err := u.recordRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find care record %s: %+v", id, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return u.respond(ctx, record)
}

func (u *careRecordUsecase) GetRecordByReception(ctx context.Context, receptionID uuid.UUID) (*dto.CareRecordResponse, error) {
	record, err := u.recordRepo.FindByReceptionID(ctx, receptionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return u.respond(ctx, record)
}

func (u *careRecordUsecase) respond(ctx context.Context, record *entity.CareEpisodeRecord) (*dto.CareRecordResponse, error) {
	invoice, err := u.invoiceRepo.FindByRecordID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return converter.CareRecordToResponse(record, invoice), nil
}

// checkUnlocked fails when the record's invoice has been settled.
func (u *careRecordUsecase) checkUnlocked(ctx context.Context, recordID uuid.UUID) error {
	invoice, err := u.invoiceRepo.FindByRecordID(ctx, recordID)
	if err != nil {
		return err
	}
	if invoice != nil && invoice.LocksRecord() {
		return fmt.Errorf("%w: invoice is %s", ErrRecordLocked, invoice.PaymentStatus)
	}
	return nil
}

// edit runs a line mutation and brings the invoice in step within the same
// transaction. A settlement that slips in between fails the whole edit.
func (u *careRecordUsecase) edit(ctx context.Context, id uuid.UUID, action string, fn func(ctx context.Context, record *entity.CareEpisodeRecord) error) (*dto.CareRecordResponse, error) {
	actor := actorFromContext(ctx)

	var (
		updated *entity.CareEpisodeRecord
		invoice *entity.Invoice
	)
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := u.recordRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrRecordNotFound
		}
		if err := u.checkUnlocked(ctx, id); err != nil {
			return err
		}

		if err := fn(ctx, record); err != nil {
			return err
		}

		updated, err = u.recordRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		invoice, err = u.ledger.materialize(ctx, updated, actor)
		if err != nil {
			if errors.Is(err, errInvoiceSettled) {
				return fmt.Errorf("%w: invoice settled during edit", ErrRecordLocked)
			}
			return err
		}
		if invoice.LocksRecord() {
			return fmt.Errorf("%w: invoice is %s", ErrRecordLocked, invoice.PaymentStatus)
		}

		return u.auditService.LogUpdate(ctx, actor, action, "care_record", id.String(),
			map[string]interface{}{"medicine_fee": record.MedicineFee(), "service_fee": record.ServiceFee()},
			map[string]interface{}{"medicine_fee": updated.MedicineFee(), "service_fee": updated.ServiceFee(), "total": invoice.TotalAmount})
	})
	if err != nil {
		return nil, err
	}

	return converter.CareRecordToResponse(updated, invoice), nil
}

func (u *careRecordUsecase) UpdateClinicalNotes(ctx context.Context, id uuid.UUID, req *dto.UpdateClinicalNotesRequest) (*dto.CareRecordResponse, error) {
	var updated *entity.CareEpisodeRecord
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := u.recordRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrRecordNotFound
		}
		if err := u.checkUnlocked(ctx, id); err != nil {
			return err
		}

		before := map[string]interface{}{"diagnosis": record.Diagnosis, "disease_type": record.DiseaseType}
		record.Symptoms = req.Symptoms
		record.Diagnosis = req.Diagnosis
		record.DiseaseType = req.DiseaseType
		record.Notes = req.Notes
		if err := u.recordRepo.UpdateNotes(ctx, record); err != nil {
			return err
		}
		updated = record

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionRecordUpdate, "care_record", id.String(),
			before, map[string]interface{}{"diagnosis": record.Diagnosis, "disease_type": record.DiseaseType})
	})
	if err != nil {
		return nil, err
	}
	return u.respond(ctx, updated)
}

func validPrescription(req dto.PrescriptionLineRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidLine, req.Quantity)
	}
	if req.Days < 0 {
		return fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidLine, req.Days)
	}
	return nil
}

func validService(req dto.ServiceLineRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidLine, req.Quantity)
	}
	return nil
}

func (u *careRecordUsecase) AddPrescriptionLine(ctx context.Context, id uuid.UUID, req *dto.PrescriptionLineRequest) (*dto.CareRecordResponse, error) {
	if err := validPrescription(*req); err != nil {
		return nil, err
	}

	return u.edit(ctx, id, entity.AuditActionRecordLines, func(ctx context.Context, record *entity.CareEpisodeRecord) error {
		medicine, err := u.medicineRepo.FindByID(ctx, req.MedicineID)
		if err != nil {
			return err
		}
		if medicine == nil {
			return fmt.Errorf("%w: %s", ErrMedicineNotFound, req.MedicineID)
		}

		return u.recordRepo.AddPrescriptionLine(ctx, &entity.PrescriptionLine{
			ID:         uuid.New(),
			RecordID:   record.ID,
			MedicineID: medicine.ID,
			Quantity:   req.Quantity,
			Dosage:     req.Dosage,
			Days:       req.Days,
			UnitPrice:  medicine.SalePrice,
		})
	})
}

func (u *careRecordUsecase) RemovePrescriptionLine(ctx context.Context, id, lineID uuid.UUID) (*dto.CareRecordResponse, error) {
	return u.edit(ctx, id, entity.AuditActionRecordLines, func(ctx context.Context, record *entity.CareEpisodeRecord) error {
		n, err := u.recordRepo.DeletePrescriptionLine(ctx, record.ID, lineID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLineNotFound
		}
		return nil
	})
}

func (u *careRecordUsecase) ReplacePrescription(ctx context.Context, id uuid.UUID, req *dto.ReplacePrescriptionRequest) (*dto.CareRecordResponse, error) {
	ids := make([]uuid.UUID, len(req.Lines))
	for i, l := range req.Lines {
		if err := validPrescription(l); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		ids[i] = l.MedicineID
	}

	return u.edit(ctx, id, entity.AuditActionRecordLines, func(ctx context.Context, record *entity.CareEpisodeRecord) error {
		medicines, err := u.medicineRepo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}

		lines := make([]entity.PrescriptionLine, len(req.Lines))
		for i, l := range req.Lines {
			medicine, ok := medicines[l.MedicineID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrMedicineNotFound, l.MedicineID)
			}
			lines[i] = entity.PrescriptionLine{
				ID:         uuid.New(),
				RecordID:   record.ID,
				MedicineID: l.MedicineID,
				Quantity:   l.Quantity,
				Dosage:     l.Dosage,
				Days:       l.Days,
				UnitPrice:  medicine.SalePrice,
			}
		}
		return u.recordRepo.ReplacePrescriptionLines(ctx, record.ID, lines)
	})
}

func (u *careRecordUsecase) AddServiceLine(ctx context.Context, id uuid.UUID, req *dto.ServiceLineRequest) (*dto.CareRecordResponse, error) {
	if err := validService(*req); err != nil {
		return nil, err
	}

	return u.edit(ctx, id, entity.AuditActionRecordLines, func(ctx context.Context, record *entity.CareEpisodeRecord) error {
		svc, err := u.serviceRepo.FindByID(ctx, req.ServiceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return fmt.Errorf("%w: %s", ErrServiceNotFound, req.ServiceID)
		}

		position := 0
		for _, l := range record.Services {
			if l.Position >= position {
				position = l.Position + 1
			}
		}

		return u.recordRepo.AddServiceLine(ctx, &entity.ServiceLine{
			ID:        uuid.New(),
			RecordID:  record.ID,
			ServiceID: svc.ID,
			Quantity:  req.Quantity,
			Position:  position,
			UnitPrice: svc.Price,
		})
	})
}

func (u *careRecordUsecase) RemoveServiceLine(ctx context.Context, id, lineID uuid.UUID) (*dto.CareRecordResponse, error) {
	return u.edit(ctx, id, entity.AuditActionRecordLines, func(ctx context.Context, record *entity.CareEpisodeRecord) error {
		n, err := u.recordRepo.DeleteServiceLine(ctx, record.ID, lineID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLineNotFound
		}
		return nil
	})
}

// ReplaceServices takes the structured list, or the compact text form when
// no list was sent.
func (u *careRecordUsecase) ReplaceServices(ctx context.Context, id uuid.UUID, req *dto.ReplaceServicesRequest) (*dto.CareRecordResponse, error) {
	requested := req.Services
	if requested == nil && req.OrderedServices != nil {
		parsed, err := converter.ParseOrderedServices(*req.OrderedServices)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLine, err)
		}
		requested = parsed
	}

	ids := make([]uuid.UUID, len(requested))
	for i, l := range requested {
		if err := validService(l); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		ids[i] = l.ServiceID
	}

	return u.edit(ctx, id, entity.AuditActionRecordLines, func(ctx context.Context, record *entity.CareEpisodeRecord) error {
		services, err := u.serviceRepo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}

		lines := make([]entity.ServiceLine, len(requested))
		for i, l := range requested {
			svc, ok := services[l.ServiceID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrServiceNotFound, l.ServiceID)
			}
			lines[i] = entity.ServiceLine{
				ID:        uuid.New(),
				RecordID:  record.ID,
				ServiceID: l.ServiceID,
				Quantity:  l.Quantity,
				Position:  i,
				UnitPrice: svc.Price,
			}
		}
		return u.recordRepo.ReplaceServiceLines(ctx, record.ID, lines)
	})
}
