package repository

import (
	"context"
	"time"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

type ShiftScheduleRepository interface {
	Create(ctx context.Context, shift *entity.ShiftSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ShiftSchedule, error)
	FindByKey(ctx context.Context, staffID uuid.UUID, date time.Time, label entity.ShiftLabel) (*entity.ShiftSchedule, error)
	FindByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]entity.ShiftSchedule, error)
	FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]entity.ShiftSchedule, error)
	FindActiveByDate(ctx context.Context, date time.Time) ([]entity.ShiftSchedule, error)
	// TransitionStatus moves the shift from one status to another and
	// returns the number of rows changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ShiftStatus) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type ScheduleTemplateRepository interface {
	Create(ctx context.Context, tpl *entity.ScheduleTemplate) error
	FindActiveByWeekday(ctx context.Context, weekday entity.Weekday) ([]entity.ScheduleTemplate, error)
	FindByStaff(ctx context.Context, staffID uuid.UUID) ([]entity.ScheduleTemplate, error)
}

type SlotRepository interface {
	// CreateBatch inserts slots, silently skipping any whose
	// (staff, date, start) key already exists.
	CreateBatch(ctx context.Context, slots []entity.Slot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	FindByKey(ctx context.Context, staffID uuid.UUID, date time.Time, startTime string) (*entity.Slot, error)
	FindByShiftID(ctx context.Context, shiftID uuid.UUID) ([]entity.Slot, error)
	FindAll(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error)
	CountTouchedByShift(ctx context.Context, shiftID uuid.UUID) (int64, error)
	DeleteAvailableByShift(ctx context.Context, shiftID uuid.UUID) (int64, error)
	// TransitionStatus moves the slot to `to` only if its current status is
	// `from`. It returns the number of rows changed (0 or 1).
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SlotStatus) (int64, error)
}
