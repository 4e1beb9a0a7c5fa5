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

type shiftScheduleRepository struct {
	db *gorm.DB
}

func NewShiftScheduleRepository(db *gorm.DB) domainRepo.ShiftScheduleRepository {
	return &shiftScheduleRepository{db: db}
}

func (r *shiftScheduleRepository) Create(ctx context.Context, shift *entity.ShiftSchedule) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(shift).Error)
}

func (r *shiftScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ShiftSchedule, error) {
	var shift entity.ShiftSchedule
	err := conn(ctx, r.db).Where("id = ?", id).First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

func (r *shiftScheduleRepository) FindByKey(ctx context.Context, staffID uuid.UUID, date time.Time, label entity.ShiftLabel) (*entity.ShiftSchedule, error) {
	var shift entity.ShiftSchedule
	err := conn(ctx, r.db).
		Where("staff_id = ? AND work_date = ? AND label = ?", staffID, date, label).
		First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

func (r *shiftScheduleRepository) FindByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]entity.ShiftSchedule, error) {
	var shifts []entity.ShiftSchedule
	err := conn(ctx, r.db).
		Where("staff_id = ? AND work_date = ?", staffID, date).
		Order("start_time ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftScheduleRepository) FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]entity.ShiftSchedule, error) {
	var shifts []entity.ShiftSchedule
	query := conn(ctx, r.db).Where("staff_id = ?", staffID)
	if !from.IsZero() {
		query = query.Where("work_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("work_date <= ?", to)
	}
	err := query.Order("work_date ASC, start_time ASC").Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftScheduleRepository) FindActiveByDate(ctx context.Context, date time.Time) ([]entity.ShiftSchedule, error) {
	var shifts []entity.ShiftSchedule
	err := conn(ctx, r.db).
		Where("work_date = ? AND status = ?", date, entity.ShiftStatusActive).
		Order("staff_id ASC, start_time ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftScheduleRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ShiftStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.ShiftSchedule{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *shiftScheduleRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&entity.ShiftSchedule{})
	return result.RowsAffected, result.Error
}

type scheduleTemplateRepository struct {
	db *gorm.DB
}

func NewScheduleTemplateRepository(db *gorm.DB) domainRepo.ScheduleTemplateRepository {
	return &scheduleTemplateRepository{db: db}
}

func (r *scheduleTemplateRepository) Create(ctx context.Context, tpl *entity.ScheduleTemplate) error {
	return translate(conn(ctx, r.db).Create(tpl).Error)
}

func (r *scheduleTemplateRepository) FindActiveByWeekday(ctx context.Context, weekday entity.Weekday) ([]entity.ScheduleTemplate, error) {
	var templates []entity.ScheduleTemplate
	err := conn(ctx, r.db).
		Where("weekday = ? AND is_active = ?", weekday, true).
		Order("staff_id ASC, start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *scheduleTemplateRepository) FindByStaff(ctx context.Context, staffID uuid.UUID) ([]entity.ScheduleTemplate, error) {
	var templates []entity.ScheduleTemplate
	err := conn(ctx, r.db).
		Where("staff_id = ?", staffID).
		Order("weekday ASC, start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}
