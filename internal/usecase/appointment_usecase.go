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
	"github.com/sirupsen/logrus"
)

const noShowBatchSize = 500

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, filter entity.AppointmentFilter) ([]dto.AppointmentResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	// SweepNoShows moves SCHEDULED appointments that started before cutoff to
	// NOSHOW and returns how many were moved.
	SweepNoShows(ctx context.Context, cutoff time.Time) (int, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	tx              repository.Transactor
	patientRepo     repository.PatientRepository
	shiftRepo       repository.ShiftScheduleRepository
	slotRepo        repository.SlotRepository
	appointmentRepo repository.AppointmentRepository
	slotLocker      service.SlotLocker
	auditService    service.AuditService
	metrics         *metrics.ClinicMetrics
	loc             *time.Location
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	patientRepo repository.PatientRepository,
	shiftRepo repository.ShiftScheduleRepository,
	slotRepo repository.SlotRepository,
	appointmentRepo repository.AppointmentRepository,
	slotLocker service.SlotLocker,
	auditService service.AuditService,
	metrics *metrics.ClinicMetrics,
	loc *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		tx:              tx,
		patientRepo:     patientRepo,
		shiftRepo:       shiftRepo,
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		slotLocker:      slotLocker,
		auditService:    auditService,
		metrics:         metrics,
		loc:             loc,
	}
}

// Book claims the slot at (staff, date, time) for the patient. The slot's
// AVAILABLE->BOOKED swap decides the winner among concurrent requests.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	started := time.Now()

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	clock, err := calendar.NormalizeClock(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	startsAt, err := calendar.At(date, clock, u.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	patient, err := u.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       req.PatientID,
		StaffID:         req.StaffID,
		AppointmentDate: date,
		AppointmentTime: clock,
		StartsAt:        startsAt,
		Status:          entity.AppointmentStatusScheduled,
		Note:            req.Note,
	}

	lockKey := fmt.Sprintf("%s:%s:%s", req.StaffID, req.Date, clock)
	err = u.slotLocker.WithSlotLock(ctx, lockKey, func(ctx context.Context) error {
		return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			slot, err := u.slotRepo.FindByKey(ctx, req.StaffID, date, clock)
			if err != nil {
				return err
			}
			if slot == nil || !slot.IsAvailable() {
				return ErrSlotUnavailable
			}
			if !startsAt.After(time.Now()) {
				return fmt.Errorf("%w: slot already started", ErrSlotUnavailable)
			}

			shift, err := u.shiftRepo.FindByID(ctx, slot.ShiftID)
			if err != nil {
				return err
			}
			if shift == nil || !shift.IsActive() {
				return fmt.Errorf("%w: shift is closed", ErrSlotUnavailable)
			}

			n, err := u.slotRepo.TransitionStatus(ctx, slot.ID, entity.SlotStatusAvailable, entity.SlotStatusBooked)
			if err != nil {
				return err
			}
			if n != 1 {
				return ErrSlotUnavailable
			}

			appointment.SlotID = slot.ID
			if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
				u.log.Warnf("Failed to create appointment: %+v", err)
				return err
			}

			return u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionAppointmentBook,
				"appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
		})
	})
	u.metrics.ObserveDuration("book", time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			err = ErrSlotUnavailable
		}
		if errors.Is(err, ErrSlotUnavailable) {
			u.metrics.ObserveBooking("conflict")
		} else {
			u.metrics.ObserveBooking("error")
		}
		return nil, err
	}

	u.metrics.ObserveBooking("booked")
	u.log.Infof("Appointment booked: id=%s, patient=%s, staff=%s, at=%s %s",
		appointment.ID, appointment.PatientID, appointment.StaffID, req.Date, clock)

	return u.GetAppointment(ctx, appointment.ID)
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, filter entity.AppointmentFilter) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// slotStatusFor is the slot state that accompanies an appointment state.
func slotStatusFor(status entity.AppointmentStatus) (entity.SlotStatus, bool) {
	switch status {
	case entity.AppointmentStatusCancelled:
		return entity.SlotStatusCancelled, true
	case entity.AppointmentStatusCompleted:
		return entity.SlotStatusCompleted, true
	}
	return "", false
}

func (u *appointmentUsecase) ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	next, err := entity.ParseAppointmentStatus(req.Status)
	if err != nil {
		return nil, err
	}

	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		appointment, err := u.appointmentRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if !appointment.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, appointment.Status, next)
		}

		n, err := u.appointmentRepo.TransitionStatus(ctx, id, appointment.Status, next)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: appointment changed concurrently", ErrInvalidStateTransition)
		}

		if slotStatus, ok := slotStatusFor(next); ok {
			if _, err := u.slotRepo.TransitionStatus(ctx, appointment.SlotID, entity.SlotStatusBooked, slotStatus); err != nil {
				return err
			}
		}

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionAppointmentStatus,
			"appointment", id.String(),
			map[string]interface{}{"status": appointment.Status},
			map[string]interface{}{"status": next})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveTransition("appointment", string(next))
	u.log.Infof("Appointment %s moved to %s", id, next)

	return u.GetAppointment(ctx, id)
}

func (u *appointmentUsecase) SweepNoShows(ctx context.Context, cutoff time.Time) (int, error) {
	total := 0
	for {
		batch, err := u.appointmentRepo.FindScheduledBefore(ctx, cutoff, noShowBatchSize)
		if err != nil {
			return total, err
		}

		moved := 0
		for _, a := range batch {
			ok, err := u.markNoShow(ctx, a)
			if err != nil {
				u.metrics.AddNoShows(total + moved)
				return total + moved, err
			}
			if ok {
				moved++
			}
		}
		total += moved

		// A full batch may hide more rows; an idle pass means the rest were
		// taken by someone else.
		if len(batch) < noShowBatchSize || moved == 0 {
			break
		}
	}

	u.metrics.AddNoShows(total)
	if total > 0 {
		u.log.Infof("No-show sweep moved %d appointment(s) scheduled before %s", total, cutoff.Format(time.RFC3339))
	}
	return total, nil
}

// markNoShow reports false when the appointment left SCHEDULED in the
// meantime. The slot goes BOOKED->CANCELLED with it.
func (u *appointmentUsecase) markNoShow(ctx context.Context, a entity.Appointment) (bool, error) {
	moved := false
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := u.appointmentRepo.TransitionStatus(ctx, a.ID, entity.AppointmentStatusScheduled, entity.AppointmentStatusNoShow)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := u.slotRepo.TransitionStatus(ctx, a.SlotID, entity.SlotStatusBooked, entity.SlotStatusCancelled); err != nil {
			return err
		}
		moved = true
		return u.auditService.LogUpdate(ctx, nil, entity.AuditActionAppointmentNoShow,
			"appointment", a.ID.String(),
			map[string]interface{}{"status": entity.AppointmentStatusScheduled},
			map[string]interface{}{"status": entity.AppointmentStatusNoShow})
	})
	return moved, err
}
