package repository

import (
	"context"
	"errors"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type careRecordRepository struct {
	db *gorm.DB
}

func NewCareRecordRepository(db *gorm.DB) domainRepo.CareRecordRepository {
	return &careRecordRepository{db: db}
}

func (r *careRecordRepository) Create(ctx context.Context, record *entity.CareEpisodeRecord) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(record).Error)
}

func (r *careRecordRepository) withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Prescriptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("prescription_lines.created_at ASC")
		}).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("service_lines.position ASC")
		})
}

func (r *careRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CareEpisodeRecord, error) {
	var record entity.CareEpisodeRecord
	err := r.withLines(conn(ctx, r.db)).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *careRecordRepository) FindByReceptionID(ctx context.Context, receptionID uuid.UUID) (*entity.CareEpisodeRecord, error) {
	var record entity.CareEpisodeRecord
	err := r.withLines(conn(ctx, r.db)).Where("reception_id = ?", receptionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *careRecordRepository) UpdateNotes(ctx context.Context, record *entity.CareEpisodeRecord) error {
	return conn(ctx, r.db).Model(&entity.CareEpisodeRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"symptoms":     record.Symptoms,
			"diagnosis":    record.Diagnosis,
			"disease_type": record.DiseaseType,
			"notes":        record.Notes,
		}).Error
}

func (r *careRecordRepository) AddPrescriptionLine(ctx context.Context, line *entity.PrescriptionLine) error {
	return conn(ctx, r.db).Create(line).Error
}

func (r *careRecordRepository) DeletePrescriptionLine(ctx context.Context, recordID, lineID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).
		Where("id = ? AND record_id = ?", lineID, recordID).
		Delete(&entity.PrescriptionLine{})
	return result.RowsAffected, result.Error
}

// ReplacePrescriptionLines must run inside a transaction to be atomic.
func (r *careRecordRepository) ReplacePrescriptionLines(ctx context.Context, recordID uuid.UUID, lines []entity.PrescriptionLine) error {
	db := conn(ctx, r.db)
	if err := db.Where("record_id = ?", recordID).Delete(&entity.PrescriptionLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.Create(&lines).Error
}

func (r *careRecordRepository) AddServiceLine(ctx context.Context, line *entity.ServiceLine) error {
	return conn(ctx, r.db).Create(line).Error
}

func (r *careRecordRepository) DeleteServiceLine(ctx context.Context, recordID, lineID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).
		Where("id = ? AND record_id = ?", lineID, recordID).
		Delete(&entity.ServiceLine{})
	return result.RowsAffected, result.Error
}

func (r *careRecordRepository) ReplaceServiceLines(ctx context.Context, recordID uuid.UUID, lines []entity.ServiceLine) error {
	db := conn(ctx, r.db)
	if err := db.Where("record_id = ?", recordID).Delete(&entity.ServiceLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.Create(&lines).Error
}
