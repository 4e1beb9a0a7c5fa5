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

type CalendarUsecase interface {
	CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	DeleteShift(ctx context.Context, id uuid.UUID) error
	// SetShiftStatus closes a shift to booking and slot generation, or
	// reopens it. Slots already booked are left alone.
	SetShiftStatus(ctx context.Context, id uuid.UUID, req *dto.ShiftStatusRequest) (*dto.ShiftResponse, error)
	ListShifts(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]dto.ShiftResponse, error)
	GenerateSlots(ctx context.Context, staffID uuid.UUID, date time.Time, label entity.ShiftLabel) ([]dto.SlotResponse, error)
	GetDailySchedule(ctx context.Context, staffID uuid.UUID, date time.Time) (*dto.DailyScheduleResponse, error)
	ListSlots(ctx context.Context, filter entity.SlotFilter) ([]dto.SlotResponse, error)
	SummarizeSlots(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]dto.ScheduleRowResponse, error)

	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	ListTemplates(ctx context.Context, staffID uuid.UUID) ([]dto.TemplateResponse, error)
	SummarizeTemplates(ctx context.Context, staffID uuid.UUID) ([]dto.ScheduleRowResponse, error)
	// PregenerateSlots materialises shifts and slots from active templates
	// for `days` days starting today. It returns the number of new shifts.
	PregenerateSlots(ctx context.Context, days int) (int, error)
}

type calendarUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	staffRepo    repository.StaffRepository
	shiftRepo    repository.ShiftScheduleRepository
	templateRepo repository.ScheduleTemplateRepository
	slotRepo     repository.SlotRepository
	auditService service.AuditService
	metrics      *metrics.ClinicMetrics
	slotMinutes  int
	loc          *time.Location
}

func NewCalendarUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	staffRepo repository.StaffRepository,
	shiftRepo repository.ShiftScheduleRepository,
	templateRepo repository.ScheduleTemplateRepository,
	slotRepo repository.SlotRepository,
	auditService service.AuditService,
	metrics *metrics.ClinicMetrics,
	defaultSlotMinutes int,
	loc *time.Location,
) CalendarUsecase {
	return &calendarUsecase{
		log:          log,
		tx:           tx,
		staffRepo:    staffRepo,
		shiftRepo:    shiftRepo,
		templateRepo: templateRepo,
		slotRepo:     slotRepo,
		auditService: auditService,
		metrics:      metrics,
		slotMinutes:  defaultSlotMinutes,
		loc:          loc,
	}
}

// shiftSpec is a validated, normalised shift definition.
type shiftSpec struct {
	label       entity.ShiftLabel
	start, end  string
	slotMinutes int
}

func (u *calendarUsecase) parseShiftSpec(label, start, end string, slotMinutes int) (shiftSpec, error) {
	l, err := entity.ParseShiftLabel(label)
	if err != nil {
		return shiftSpec{}, err
	}
	if slotMinutes == 0 {
		slotMinutes = u.slotMinutes
	}
	if slotMinutes <= 0 {
		return shiftSpec{}, fmt.Errorf("%w: %v", ErrConfiguration, calendar.ErrInvalidDuration)
	}
	s, e, err := calendar.ValidateWindow(start, end)
	if err != nil {
		return shiftSpec{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return shiftSpec{label: l, start: calendar.FormatClock(s), end: calendar.FormatClock(e), slotMinutes: slotMinutes}, nil
}

func (u *calendarUsecase) requireClinician(ctx context.Context, staffID uuid.UUID) error {
	staff, err := u.staffRepo.FindByID(ctx, staffID)
	if err != nil {
		u.log.Warnf("Failed to find staff %s: %+v", staffID, err)
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}
	if !staff.IsActive || !staff.Role.IsClinician() {
		return ErrNotClinician
	}
	return nil
}

// CreateShift stores a shift and generates its slots in one transaction.
func (u *calendarUsecase) CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	date, err := calendar.ParseDate(req.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("%w: work_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	spec, err := u.parseShiftSpec(req.Label, req.StartTime, req.EndTime, req.SlotMinutes)
	if err != nil {
		return nil, err
	}
	if err := u.requireClinician(ctx, req.StaffID); err != nil {
		return nil, err
	}

	shift := &entity.ShiftSchedule{
		ID:          uuid.New(),
		StaffID:     req.StaffID,
		WorkDate:    date,
		Label:       spec.label,
		StartTime:   spec.start,
		EndTime:     spec.end,
		SlotMinutes: spec.slotMinutes,
		Status:      entity.ShiftStatusActive,
	}

	var slots []entity.Slot
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.insertShift(ctx, shift); err != nil {
			return err
		}

		generated, err := u.generateForShift(ctx, shift)
		if err != nil {
			return err
		}
		slots = generated

		return u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionShiftCreate,
			"shift_schedule", shift.ID.String(), converter.ShiftToResponse(shift))
	})
	if err != nil {
		return nil, err
	}

	u.metrics.AddSlotsGenerated(len(slots))
	u.log.Infof("Shift created: id=%s, staff=%s, date=%s, %s-%s, slots=%d",
		shift.ID, shift.StaffID, req.WorkDate, shift.StartTime, shift.EndTime, len(slots))

	response := converter.ShiftToResponse(shift)
	response.Slots = u.annotate(slots)
	return response, nil
}

// insertShift rejects windows that overlap another shift of the same staff
// member on the same date, and a second shift under the same label.
func (u *calendarUsecase) insertShift(ctx context.Context, shift *entity.ShiftSchedule) error {
	existing, err := u.shiftRepo.FindByStaffAndDate(ctx, shift.StaffID, shift.WorkDate)
	if err != nil {
		return err
	}

	window := calendar.Interval{Start: shift.StartTime, End: shift.EndTime}
	for _, other := range existing {
		if other.Label == shift.Label {
			return fmt.Errorf("%w: %s shift already exists", ErrShiftOverlap, shift.Label)
		}
		if calendar.Overlaps(window, calendar.Interval{Start: other.StartTime, End: other.EndTime}) {
			return fmt.Errorf("%w: %s %s-%s", ErrShiftOverlap, other.Label, other.StartTime, other.EndTime)
		}
	}

	if err := u.shiftRepo.Create(ctx, shift); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return fmt.Errorf("%w: %s shift already exists", ErrShiftOverlap, shift.Label)
		}
		return err
	}
	return nil
}

// generateForShift is idempotent: a shift that already has slots gets them
// back unchanged. Concurrent generators converge through the slot key.
func (u *calendarUsecase) generateForShift(ctx context.Context, shift *entity.ShiftSchedule) ([]entity.Slot, error) {
	intervals, err := calendar.Split(shift.StartTime, shift.EndTime, shift.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	existing, err := u.slotRepo.FindByShiftID(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	slots := make([]entity.Slot, len(intervals))
	for i, iv := range intervals {
		slots[i] = entity.Slot{
			ID:        uuid.New(),
			StaffID:   shift.StaffID,
			ShiftID:   shift.ID,
			SlotDate:  shift.WorkDate,
			StartTime: iv.Start,
			EndTime:   iv.End,
			Status:    entity.SlotStatusAvailable,
		}
	}

	if err := u.slotRepo.CreateBatch(ctx, slots); err != nil {
		u.log.Warnf("Failed to insert slots for shift %s: %+v", shift.ID, err)
		return nil, err
	}

	return u.slotRepo.FindByShiftID(ctx, shift.ID)
}

func (u *calendarUsecase) GenerateSlots(ctx context.Context, staffID uuid.UUID, date time.Time, label entity.ShiftLabel) ([]dto.SlotResponse, error) {
	shift, err := u.shiftRepo.FindByKey(ctx, staffID, date, label)
	if err != nil {
		u.log.Warnf("Failed to find shift %s/%s/%s: %+v", staffID, date.Format(calendar.DateLayout), label, err)
		return nil, err
	}
	if shift == nil {
		return []dto.SlotResponse{}, nil
	}
	if !shift.IsActive() {
		return nil, fmt.Errorf("%w: %s %s", ErrShiftInactive, shift.Label, shift.WorkDate.Format(calendar.DateLayout))
	}

	var slots []entity.Slot
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		generated, err := u.generateForShift(ctx, shift)
		slots = generated
		return err
	})
	if err != nil {
		return nil, err
	}

	return u.annotate(slots), nil
}

func (u *calendarUsecase) DeleteShift(ctx context.Context, id uuid.UUID) error {
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		shift, err := u.shiftRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if shift == nil {
			return ErrShiftNotFound
		}

		touched, err := u.slotRepo.CountTouchedByShift(ctx, id)
		if err != nil {
			return err
		}
		if touched > 0 {
			return fmt.Errorf("%w: %d slot(s) booked or closed", ErrShiftInUse, touched)
		}

		if _, err := u.slotRepo.DeleteAvailableByShift(ctx, id); err != nil {
			return err
		}
		// A booking may have landed between the count and the delete.
		touched, err = u.slotRepo.CountTouchedByShift(ctx, id)
		if err != nil {
			return err
		}
		if touched > 0 {
			return fmt.Errorf("%w: %d slot(s) booked or closed", ErrShiftInUse, touched)
		}

		if _, err := u.shiftRepo.Delete(ctx, id); err != nil {
			return err
		}

		u.log.Infof("Shift deleted: id=%s", id)
		return u.auditService.LogDelete(ctx, actorFromContext(ctx), entity.AuditActionShiftDelete,
			"shift_schedule", id.String(), converter.ShiftToResponse(shift))
	})
}

func (u *calendarUsecase) SetShiftStatus(ctx context.Context, id uuid.UUID, req *dto.ShiftStatusRequest) (*dto.ShiftResponse, error) {
	next, err := entity.ParseShiftStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var shift *entity.ShiftSchedule
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		shift, err = u.shiftRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if shift == nil {
			return ErrShiftNotFound
		}
		if shift.Status == next {
			return nil
		}

		previous := shift.Status
		n, err := u.shiftRepo.TransitionStatus(ctx, id, previous, next)
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("%w: shift changed concurrently", ErrInvalidStateTransition)
		}
		shift.Status = next

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionShiftStatus,
			"shift_schedule", id.String(),
			map[string]interface{}{"status": previous},
			map[string]interface{}{"status": next})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Shift %s is now %s", id, shift.Status)
	return converter.ShiftToResponse(shift), nil
}

func (u *calendarUsecase) ListShifts(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]dto.ShiftResponse, error) {
	shifts, err := u.shiftRepo.FindByStaffAndRange(ctx, staffID, from, to)
	if err != nil {
		u.log.Warnf("Failed to list shifts for %s: %+v", staffID, err)
		return nil, err
	}
	return converter.ShiftsToResponses(shifts), nil
}

func (u *calendarUsecase) GetDailySchedule(ctx context.Context, staffID uuid.UUID, date time.Time) (*dto.DailyScheduleResponse, error) {
	shifts, err := u.shiftRepo.FindByStaffAndDate(ctx, staffID, date)
	if err != nil {
		u.log.Warnf("Failed to load shifts for %s: %+v", staffID, err)
		return nil, err
	}

	today := calendar.DateOf(time.Now(), u.loc)
	response := &dto.DailyScheduleResponse{
		StaffID: staffID,
		Date:    date.Format(calendar.DateLayout),
		IsPast:  date.Before(today),
		IsToday: calendar.SameDate(date, today),
		Shifts:  make([]dto.ShiftResponse, 0, len(shifts)),
	}

	for i := range shifts {
		slots, err := u.slotRepo.FindByShiftID(ctx, shifts[i].ID)
		if err != nil {
			return nil, err
		}
		shift := converter.ShiftToResponse(&shifts[i])
		shift.Slots = u.annotate(slots)
		response.Shifts = append(response.Shifts, *shift)
	}

	return response, nil
}

func (u *calendarUsecase) ListSlots(ctx context.Context, filter entity.SlotFilter) ([]dto.SlotResponse, error) {
	slots, err := u.slotRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list slots: %+v", err)
		return nil, err
	}
	return u.annotate(slots), nil
}

// annotate marks slots as past or today in the clinic timezone.
func (u *calendarUsecase) annotate(slots []entity.Slot) []dto.SlotResponse {
	now := time.Now()
	today := calendar.DateOf(now, u.loc)
	out := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		startsAt, err := calendar.At(slots[i].SlotDate, slots[i].StartTime, u.loc)
		isPast := err == nil && !startsAt.After(now)
		out[i] = converter.SlotToResponse(&slots[i], isPast, calendar.SameDate(slots[i].SlotDate, today))
	}
	return out
}

func (u *calendarUsecase) SummarizeSlots(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]dto.ScheduleRowResponse, error) {
	slots, err := u.slotRepo.FindAll(ctx, entity.SlotFilter{StaffID: staffID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	rows := make([]calendar.Row, 0, len(slots))
	for _, s := range slots {
		if s.Status == entity.SlotStatusCancelled {
			continue
		}
		rows = append(rows, calendar.Row{DayKey: s.SlotDate.Format(calendar.DateLayout), Start: s.StartTime, End: s.EndTime, Slots: 1})
	}
	return converter.ScheduleRowsToResponses(calendar.MergeContiguous(rows)), nil
}

func (u *calendarUsecase) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	weekday, err := entity.ParseWeekday(req.Weekday)
	if err != nil {
		return nil, err
	}
	spec, err := u.parseShiftSpec(req.Label, req.StartTime, req.EndTime, req.SlotMinutes)
	if err != nil {
		return nil, err
	}
	if err := u.requireClinician(ctx, req.StaffID); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	tpl := &entity.ScheduleTemplate{
		ID:          uuid.New(),
		StaffID:     req.StaffID,
		Weekday:     weekday,
		Label:       spec.label,
		StartTime:   spec.start,
		EndTime:     spec.end,
		SlotMinutes: spec.slotMinutes,
		IsActive:    active,
	}

	if err := u.templateRepo.Create(ctx, tpl); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s %s template already exists", ErrShiftOverlap, weekday, spec.label)
		}
		u.log.Warnf("Failed to create template: %+v", err)
		return nil, err
	}

	return converter.TemplateToResponse(tpl), nil
}

func (u *calendarUsecase) ListTemplates(ctx context.Context, staffID uuid.UUID) ([]dto.TemplateResponse, error) {
	templates, err := u.templateRepo.FindByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return converter.TemplatesToResponses(templates), nil
}

// SummarizeTemplates folds the weekly pattern of a staff member into
// contiguous ranges per weekday.
func (u *calendarUsecase) SummarizeTemplates(ctx context.Context, staffID uuid.UUID) ([]dto.ScheduleRowResponse, error) {
	templates, err := u.templateRepo.FindByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	rows := make([]calendar.Row, 0, len(templates))
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		intervals, err := calendar.Split(t.StartTime, t.EndTime, t.SlotMinutes)
		if err != nil {
			u.log.Warnf("Skipping malformed template %s: %+v", t.ID, err)
			continue
		}
		rows = append(rows, calendar.Row{DayKey: t.Weekday.String(), Start: t.StartTime, End: t.EndTime, Slots: len(intervals)})
	}
	return converter.ScheduleRowsToResponses(calendar.MergeContiguous(rows)), nil
}

func (u *calendarUsecase) PregenerateSlots(ctx context.Context, days int) (int, error) {
	today := calendar.DateOf(time.Now(), u.loc)
	created := 0

	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, d)
		templates, err := u.templateRepo.FindActiveByWeekday(ctx, entity.WeekdayOf(date))
		if err != nil {
			return created, err
		}

		for _, tpl := range templates {
			n, err := u.materialize(ctx, tpl, date)
			if err != nil {
				if errors.Is(err, ErrShiftOverlap) || errors.Is(err, ErrConfiguration) {
					u.log.Warnf("Template %s skipped for %s: %v", tpl.ID, date.Format(calendar.DateLayout), err)
					continue
				}
				return created, err
			}
			created += n
		}
	}

	if created > 0 {
		u.log.Infof("Pre-generated %d shift(s) over %d day(s)", created, days)
	}
	return created, nil
}

// materialize ensures the template's shift and slots exist on date. It
// returns 1 when a shift was created.
func (u *calendarUsecase) materialize(ctx context.Context, tpl entity.ScheduleTemplate, date time.Time) (int, error) {
	created := 0
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		shift, err := u.shiftRepo.FindByKey(ctx, tpl.StaffID, date, tpl.Label)
		if err != nil {
			return err
		}
		if shift == nil {
			shift = &entity.ShiftSchedule{
				ID:          uuid.New(),
				StaffID:     tpl.StaffID,
				WorkDate:    date,
				Label:       tpl.Label,
				StartTime:   tpl.StartTime,
				EndTime:     tpl.EndTime,
				SlotMinutes: tpl.SlotMinutes,
				Status:      entity.ShiftStatusActive,
			}
			if err := u.insertShift(ctx, shift); err != nil {
				return err
			}
			created = 1
		}
		if !shift.IsActive() {
			return nil
		}

		slots, err := u.generateForShift(ctx, shift)
		if err != nil {
			return err
		}
		if created == 1 {
			u.metrics.AddSlotsGenerated(len(slots))
			return u.auditService.LogCreate(ctx, nil, entity.AuditActionSlotsGenerate,
				"shift_schedule", shift.ID.String(), map[string]interface{}{"template_id": tpl.ID, "slots": len(slots)})
		}
		return nil
	})
	return created, err
}
