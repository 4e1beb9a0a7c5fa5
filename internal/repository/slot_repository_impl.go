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

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) domainRepo.SlotRepository {
	return &slotRepository{db: db}
}

// CreateBatch relies on idx_slot_key: a concurrent generator inserting the
// same keys simply loses the race without failing.
func (r *slotRepository) CreateBatch(ctx context.Context, slots []entity.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots).Error
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	var slot entity.Slot
	err := conn(ctx, r.db).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindByKey(ctx context.Context, staffID uuid.UUID, date time.Time, startTime string) (*entity.Slot, error) {
	var slot entity.Slot
	err := conn(ctx, r.db).
		Where("staff_id = ? AND slot_date = ? AND start_time = ?", staffID, date, startTime).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindByShiftID(ctx context.Context, shiftID uuid.UUID) ([]entity.Slot, error) {
	var slots []entity.Slot
	err := conn(ctx, r.db).Where("shift_id = ?", shiftID).Order("start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) FindAll(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error) {
	var slots []entity.Slot
	query := conn(ctx, r.db)
	if filter.StaffID != uuid.Nil {
		query = query.Where("staff_id = ?", filter.StaffID)
	}
	if !filter.From.IsZero() {
		query = query.Where("slot_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("slot_date <= ?", filter.To)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Order("slot_date ASC, start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) CountTouchedByShift(ctx context.Context, shiftID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Slot{}).
		Where("shift_id = ? AND status <> ?", shiftID, entity.SlotStatusAvailable).
		Count(&count).Error
	return count, err
}

func (r *slotRepository) DeleteAvailableByShift(ctx context.Context, shiftID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).
		Where("shift_id = ? AND status = ?", shiftID, entity.SlotStatusAvailable).
		Delete(&entity.Slot{})
	return result.RowsAffected, result.Error
}

// TransitionStatus atomically moves a slot ONLY if it is still in `from`.
// Returns affected rows: 1 = moved, 0 = someone else got there first.
func (r *slotRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SlotStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Slot{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
