package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

type shiftScheduleRepository struct{ s *Store }

func (s *Store) Shifts() domainRepo.ShiftScheduleRepository { return shiftScheduleRepository{s} }

func byWorkDateAndStart(a, b entity.ShiftSchedule) int {
	if c := a.WorkDate.Compare(b.WorkDate); c != 0 {
		return c
	}
	return strings.Compare(a.StartTime, b.StartTime)
}

func (r shiftScheduleRepository) Create(ctx context.Context, shift *entity.ShiftSchedule) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.t.shifts {
		if existing.ID == shift.ID ||
			(existing.StaffID == shift.StaffID && existing.WorkDate.Equal(shift.WorkDate) && existing.Label == shift.Label) {
			return domainRepo.ErrDuplicateKey
		}
	}
	stamp(&shift.CreatedAt, &shift.UpdatedAt)
	row := *shift
	row.Staff = entity.Staff{}
	row.Slots = nil
	r.s.t.shifts[shift.ID] = row
	return nil
}

func (r shiftScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ShiftSchedule, error) {
	defer r.s.lock(ctx)()
	shift, ok := r.s.t.shifts[id]
	if !ok {
		return nil, nil
	}
	return &shift, nil
}

func (r shiftScheduleRepository) FindByKey(ctx context.Context, staffID uuid.UUID, date time.Time, label entity.ShiftLabel) (*entity.ShiftSchedule, error) {
	defer r.s.lock(ctx)()
	for _, shift := range r.s.t.shifts {
		if shift.StaffID == staffID && shift.WorkDate.Equal(date) && shift.Label == label {
			return &shift, nil
		}
	}
	return nil, nil
}

func (r shiftScheduleRepository) FindByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]entity.ShiftSchedule, error) {
	return r.collect(ctx, func(s entity.ShiftSchedule) bool {
		return s.StaffID == staffID && s.WorkDate.Equal(date)
	})
}

func (r shiftScheduleRepository) FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]entity.ShiftSchedule, error) {
	return r.collect(ctx, func(s entity.ShiftSchedule) bool {
		if s.StaffID != staffID {
			return false
		}
		if !from.IsZero() && s.WorkDate.Before(from) {
			return false
		}
		return to.IsZero() || !s.WorkDate.After(to)
	})
}

func (r shiftScheduleRepository) FindActiveByDate(ctx context.Context, date time.Time) ([]entity.ShiftSchedule, error) {
	return r.collect(ctx, func(s entity.ShiftSchedule) bool {
		return s.WorkDate.Equal(date) && s.IsActive()
	})
}

func (r shiftScheduleRepository) collect(ctx context.Context, keep func(entity.ShiftSchedule) bool) ([]entity.ShiftSchedule, error) {
	defer r.s.lock(ctx)()
	var out []entity.ShiftSchedule
	for _, shift := range r.s.t.shifts {
		if keep(shift) {
			out = append(out, shift)
		}
	}
	slices.SortFunc(out, byWorkDateAndStart)
	return out, nil
}

func (r shiftScheduleRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ShiftStatus) (int64, error) {
	defer r.s.lock(ctx)()
	shift, ok := r.s.t.shifts[id]
	if !ok || shift.Status != from {
		return 0, nil
	}
	shift.Status = to
	stamp(nil, &shift.UpdatedAt)
	r.s.t.shifts[id] = shift
	return 1, nil
}

func (r shiftScheduleRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.shifts[id]; !ok {
		return 0, nil
	}
	delete(r.s.t.shifts, id)
	return 1, nil
}

type scheduleTemplateRepository struct{ s *Store }

func (s *Store) Templates() domainRepo.ScheduleTemplateRepository {
	return scheduleTemplateRepository{s}
}

func (r scheduleTemplateRepository) Create(ctx context.Context, tpl *entity.ScheduleTemplate) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.t.templates {
		if existing.ID == tpl.ID ||
			(existing.StaffID == tpl.StaffID && existing.Weekday == tpl.Weekday && existing.Label == tpl.Label) {
			return domainRepo.ErrDuplicateKey
		}
	}
	stamp(&tpl.CreatedAt, &tpl.UpdatedAt)
	r.s.t.templates[tpl.ID] = *tpl
	return nil
}

func (r scheduleTemplateRepository) FindActiveByWeekday(ctx context.Context, weekday entity.Weekday) ([]entity.ScheduleTemplate, error) {
	return r.collect(ctx, func(t entity.ScheduleTemplate) bool {
		return t.IsActive && t.Weekday == weekday
	})
}

func (r scheduleTemplateRepository) FindByStaff(ctx context.Context, staffID uuid.UUID) ([]entity.ScheduleTemplate, error) {
	return r.collect(ctx, func(t entity.ScheduleTemplate) bool { return t.StaffID == staffID })
}

func (r scheduleTemplateRepository) collect(ctx context.Context, keep func(entity.ScheduleTemplate) bool) ([]entity.ScheduleTemplate, error) {
	defer r.s.lock(ctx)()
	var out []entity.ScheduleTemplate
	for _, tpl := range r.s.t.templates {
		if keep(tpl) {
			out = append(out, tpl)
		}
	}
	slices.SortFunc(out, func(a, b entity.ScheduleTemplate) int {
		if a.Weekday != b.Weekday {
			return int(a.Weekday) - int(b.Weekday)
		}
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out, nil
}

type slotRepository struct{ s *Store }

func (s *Store) Slots() domainRepo.SlotRepository { return slotRepository{s} }

func (r slotRepository) CreateBatch(ctx context.Context, slots []entity.Slot) error {
	defer r.s.lock(ctx)()
	for i := range slots {
		if r.findByKey(slots[i].StaffID, slots[i].SlotDate, slots[i].StartTime) != nil {
			continue
		}
		stamp(&slots[i].CreatedAt, &slots[i].UpdatedAt)
		r.s.t.slots[slots[i].ID] = slots[i]
	}
	return nil
}

func (r slotRepository) findByKey(staffID uuid.UUID, date time.Time, start string) *entity.Slot {
	for _, slot := range r.s.t.slots {
		if slot.StaffID == staffID && slot.SlotDate.Equal(date) && slot.StartTime == start {
			return &slot
		}
	}
	return nil
}

func (r slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	defer r.s.lock(ctx)()
	slot, ok := r.s.t.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r slotRepository) FindByKey(ctx context.Context, staffID uuid.UUID, date time.Time, startTime string) (*entity.Slot, error) {
	defer r.s.lock(ctx)()
	return r.findByKey(staffID, date, startTime), nil
}

func (r slotRepository) FindByShiftID(ctx context.Context, shiftID uuid.UUID) ([]entity.Slot, error) {
	return r.collect(ctx, func(s entity.Slot) bool { return s.ShiftID == shiftID })
}

func (r slotRepository) FindAll(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error) {
	return r.collect(ctx, func(s entity.Slot) bool {
		if filter.StaffID != uuid.Nil && s.StaffID != filter.StaffID {
			return false
		}
		if !filter.From.IsZero() && s.SlotDate.Before(filter.From) {
			return false
		}
		if !filter.To.IsZero() && s.SlotDate.After(filter.To) {
			return false
		}
		return filter.Status == "" || s.Status == filter.Status
	})
}

func (r slotRepository) collect(ctx context.Context, keep func(entity.Slot) bool) ([]entity.Slot, error) {
	defer r.s.lock(ctx)()
	var out []entity.Slot
	for _, slot := range r.s.t.slots {
		if keep(slot) {
			out = append(out, slot)
		}
	}
	slices.SortFunc(out, func(a, b entity.Slot) int {
		if c := a.SlotDate.Compare(b.SlotDate); c != 0 {
			return c
		}
		if c := strings.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return strings.Compare(a.StaffID.String(), b.StaffID.String())
	})
	return out, nil
}

func (r slotRepository) CountTouchedByShift(ctx context.Context, shiftID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for _, slot := range r.s.t.slots {
		if slot.ShiftID == shiftID && slot.IsTouched() {
			n++
		}
	}
	return n, nil
}

func (r slotRepository) DeleteAvailableByShift(ctx context.Context, shiftID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for id, slot := range r.s.t.slots {
		if slot.ShiftID == shiftID && slot.IsAvailable() {
			delete(r.s.t.slots, id)
			n++
		}
	}
	return n, nil
}

func (r slotRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SlotStatus) (int64, error) {
	defer r.s.lock(ctx)()
	slot, ok := r.s.t.slots[id]
	if !ok || slot.Status != from {
		return 0, nil
	}
	slot.Status = to
	stamp(nil, &slot.UpdatedAt)
	r.s.t.slots[id] = slot
	return 1, nil
}
