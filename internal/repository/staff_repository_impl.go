package repository

import (
	"context"
	"errors"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) domainRepo.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	return translate(conn(ctx, r.db).Create(staff).Error)
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := conn(ctx, r.db).Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindAll(ctx context.Context, role entity.StaffRole) ([]entity.Staff, error) {
	var staff []entity.Staff
	query := conn(ctx, r.db)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Order("full_name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return translate(conn(ctx, r.db).Create(patient).Error)
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := conn(ctx, r.db).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Search(ctx context.Context, name string, limit int) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := conn(ctx, r.db)
	if name != "" {
		query = query.Where("full_name ILIKE ?", "%"+name+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("full_name ASC").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}
