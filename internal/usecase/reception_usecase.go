package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ReceptionUsecase interface {
	CheckIn(ctx context.Context, receptionistID uuid.UUID, req *dto.CheckInRequest) (*dto.ReceptionResponse, error)
	StartExamination(ctx context.Context, receptionID, doctorID uuid.UUID) (*dto.CareRecordResponse, error)
	Complete(ctx context.Context, receptionID uuid.UUID) (*dto.ReceptionResponse, error)
	Cancel(ctx context.Context, receptionID uuid.UUID) (*dto.ReceptionResponse, error)
	GetReception(ctx context.Context, id uuid.UUID) (*dto.ReceptionResponse, error)
	ListReceptions(ctx context.Context, filter entity.ReceptionFilter) ([]dto.ReceptionResponse, error)
	// SyncQueue lifts today's queue counter above every number already
	// persisted, so a restarted counter never hands out a duplicate.
	SyncQueue(ctx context.Context) error
}

type receptionUsecase struct {
	log             *logrus.Logger
	tx              repository.Transactor
	patientRepo     repository.PatientRepository
	staffRepo       repository.StaffRepository
	appointmentRepo repository.AppointmentRepository
	receptionRepo   repository.ReceptionRepository
	recordRepo      repository.CareRecordRepository
	slotRepo        repository.SlotRepository
	queue           service.QueueService
	ledger          *invoiceLedger
	auditService    service.AuditService
	metrics         *metrics.ClinicMetrics
	loc             *time.Location
}

func NewReceptionUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	patientRepo repository.PatientRepository,
	staffRepo repository.StaffRepository,
	appointmentRepo repository.AppointmentRepository,
	receptionRepo repository.ReceptionRepository,
	recordRepo repository.CareRecordRepository,
	slotRepo repository.SlotRepository,
	invoiceRepo repository.InvoiceRepository,
	queue service.QueueService,
	auditService service.AuditService,
	metrics *metrics.ClinicMetrics,
	examinationFee decimal.Decimal,
	loc *time.Location,
) ReceptionUsecase {
	return &receptionUsecase{
		log:             log,
		tx:              tx,
		patientRepo:     patientRepo,
		staffRepo:       staffRepo,
		appointmentRepo: appointmentRepo,
		receptionRepo:   receptionRepo,
		recordRepo:      recordRepo,
		slotRepo:        slotRepo,
		queue:           queue,
		ledger:          newInvoiceLedger(log, invoiceRepo, examinationFee, loc),
		auditService:    auditService,
		metrics:         metrics,
		loc:             loc,
	}
}

func (u *receptionUsecase) today() time.Time {
	return calendar.DateOf(time.Now(), u.loc)
}

func (u *receptionUsecase) CheckIn(ctx context.Context, receptionistID uuid.UUID, req *dto.CheckInRequest) (*dto.ReceptionResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	receptionist, err := u.staffRepo.FindByID(ctx, receptionistID)
	if err != nil {
		return nil, err
	}
	if receptionist == nil {
		return nil, ErrStaffNotFound
	}

	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(ctx, *req.AppointmentID)
		if err != nil {
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if !appointment.IsConfirmed() {
			return nil, fmt.Errorf("%w: status is %s", ErrAppointmentNotConfirmed, appointment.Status)
		}
		if appointment.PatientID != req.PatientID {
			return nil, ErrAppointmentPatientMismatch
		}
	}

	today := u.today()
	number, err := u.queue.Next(ctx, today)
	if err != nil {
		// The counter is a convenience; fall back to the persisted maximum.
		highest, dbErr := u.receptionRepo.MaxQueueNumber(ctx, today)
		if dbErr != nil {
			return nil, dbErr
		}
		number = highest + 1
	}

	reception := &entity.Reception{
		ID:             uuid.New(),
		PatientID:      req.PatientID,
		ReceptionistID: receptionistID,
		AppointmentID:  req.AppointmentID,
		ReceptionDate:  today,
		QueueNumber:    number,
		Status:         entity.ReceptionStatusWaiting,
	}

	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.receptionRepo.Create(ctx, reception); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrAlreadyCheckedIn
			}
			u.log.Warnf("Failed to create reception: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, &receptionistID, entity.AuditActionReceptionCheckIn,
			"reception", reception.ID.String(), converter.ReceptionToResponse(reception))
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveTransition("reception", string(entity.ReceptionStatusWaiting))
	u.log.Infof("Patient %s checked in: reception=%s, queue=%d", req.PatientID, reception.ID, number)

	return u.GetReception(ctx, reception.ID)
}

func (u *receptionUsecase) StartExamination(ctx context.Context, receptionID, doctorID uuid.UUID) (*dto.CareRecordResponse, error) {
	doctor, err := u.staffRepo.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrStaffNotFound
	}
	if !doctor.CanExamine() {
		return nil, ErrNotClinician
	}

	var record *entity.CareEpisodeRecord
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		reception, err := u.receptionRepo.FindByID(ctx, receptionID)
		if err != nil {
			return err
		}
		if reception == nil {
			return ErrReceptionNotFound
		}
		if err := startable(reception); err != nil {
			return err
		}

		n, err := u.receptionRepo.TransitionStatus(ctx, receptionID, entity.ReceptionStatusWaiting, entity.ReceptionStatusInExamination)
		if err != nil {
			return err
		}
		if n == 0 {
			// Lost the race; report what the winner left behind.
			fresh, err := u.receptionRepo.FindByID(ctx, receptionID)
			if err != nil {
				return err
			}
			if fresh == nil {
				return ErrReceptionNotFound
			}
			if err := startable(fresh); err != nil {
				return err
			}
			return ErrAlreadyStarted
		}

		record = &entity.CareEpisodeRecord{
			ID:          uuid.New(),
			ReceptionID: receptionID,
			DoctorID:    doctorID,
			PatientID:   reception.PatientID,
			ExaminedAt:  time.Now(),
		}
		if err := u.recordRepo.Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrAlreadyStarted
			}
			u.log.Warnf("Failed to create care record for reception %s: %+v", receptionID, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionReceptionStart,
			"reception", receptionID.String(),
			map[string]interface{}{"status": reception.Status},
			map[string]interface{}{"status": entity.ReceptionStatusInExamination, "record_id": record.ID})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveTransition("reception", string(entity.ReceptionStatusInExamination))
	u.log.Infof("Examination started: reception=%s, doctor=%s, record=%s", receptionID, doctorID, record.ID)

	return converter.CareRecordToResponse(record, nil), nil
}

func startable(r *entity.Reception) error {
	switch {
	case r.HasStarted():
		return ErrAlreadyStarted
	case r.Status == entity.ReceptionStatusCancelled:
		return fmt.Errorf("%w: reception is cancelled", ErrInvalidStateTransition)
	}
	return nil
}

func (u *receptionUsecase) Complete(ctx context.Context, receptionID uuid.UUID) (*dto.ReceptionResponse, error) {
	actor := actorFromContext(ctx)

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		reception, err := u.receptionRepo.FindByID(ctx, receptionID)
		if err != nil {
			return err
		}
		if reception == nil {
			return ErrReceptionNotFound
		}

		n, err := u.receptionRepo.TransitionStatus(ctx, receptionID, entity.ReceptionStatusInExamination, entity.ReceptionStatusDone)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, reception.Status, entity.ReceptionStatusDone)
		}

		if !reception.IsWalkIn() {
			if err := u.completeAppointment(ctx, *reception.AppointmentID); err != nil {
				return err
			}
		}

		record, err := u.recordRepo.FindByReceptionID(ctx, receptionID)
		if err != nil {
			return err
		}
		if record != nil {
			if _, err := u.ledger.materialize(ctx, record, actor); err != nil && !errors.Is(err, errInvoiceSettled) {
				return err
			}
		}

		return u.auditService.LogUpdate(ctx, actor, entity.AuditActionReceptionComplete,
			"reception", receptionID.String(),
			map[string]interface{}{"status": reception.Status},
			map[string]interface{}{"status": entity.ReceptionStatusDone})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveTransition("reception", string(entity.ReceptionStatusDone))
	u.log.Infof("Reception %s completed", receptionID)

	return u.GetReception(ctx, receptionID)
}

// completeAppointment closes the appointment and its slot. Each step is a
// conditional update and is skipped when already applied.
func (u *receptionUsecase) completeAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		u.log.Warnf("Reception references missing appointment %s", appointmentID)
		return nil
	}

	if _, err := u.appointmentRepo.TransitionStatus(ctx, appointmentID, entity.AppointmentStatusConfirmed, entity.AppointmentStatusCompleted); err != nil {
		return err
	}
	if _, err := u.slotRepo.TransitionStatus(ctx, appointment.SlotID, entity.SlotStatusBooked, entity.SlotStatusCompleted); err != nil {
		return err
	}
	return nil
}

func (u *receptionUsecase) Cancel(ctx context.Context, receptionID uuid.UUID) (*dto.ReceptionResponse, error) {
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := u.receptionRepo.TransitionStatus(ctx, receptionID, entity.ReceptionStatusWaiting, entity.ReceptionStatusCancelled)
		if err != nil {
			return err
		}
		if n == 0 {
			reception, err := u.receptionRepo.FindByID(ctx, receptionID)
			if err != nil {
				return err
			}
			if reception == nil {
				return ErrReceptionNotFound
			}
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, reception.Status, entity.ReceptionStatusCancelled)
		}

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionReceptionCancel,
			"reception", receptionID.String(),
			map[string]interface{}{"status": entity.ReceptionStatusWaiting},
			map[string]interface{}{"status": entity.ReceptionStatusCancelled})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveTransition("reception", string(entity.ReceptionStatusCancelled))
	return u.GetReception(ctx, receptionID)
}

func (u *receptionUsecase) GetReception(ctx context.Context, id uuid.UUID) (*dto.ReceptionResponse, error) {
	reception, err := u.receptionRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find reception %s: %+v", id, err)
		return nil, err
	}
	if reception == nil {
		return nil, ErrReceptionNotFound
	}
	return converter.ReceptionToResponse(reception), nil
}

func (u *receptionUsecase) ListReceptions(ctx context.Context, filter entity.ReceptionFilter) ([]dto.ReceptionResponse, error) {
	receptions, err := u.receptionRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list receptions: %+v", err)
		return nil, err
	}
	return converter.ReceptionsToResponses(receptions), nil
}

func (u *receptionUsecase) SyncQueue(ctx context.Context) error {
	today := u.today()
	highest, err := u.receptionRepo.MaxQueueNumber(ctx, today)
	if err != nil {
		return err
	}
	return u.queue.Sync(ctx, today, highest)
}
