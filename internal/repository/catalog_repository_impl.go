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

type medicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) domainRepo.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return translate(conn(ctx, r.db).Create(medicine).Error)
}

func (r *medicineRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Medicine, int64, error) {
	var medicines []entity.Medicine
	var total int64

	if err := conn(ctx, r.db).Model(&entity.Medicine{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := conn(ctx, r.db).Limit(limit).Offset(offset).Order("name ASC").Find(&medicines).Error; err != nil {
		return nil, 0, err
	}

	return medicines, total, nil
}

func (r *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := conn(ctx, r.db).Where("id = ?", id).First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *medicineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.Medicine, error) {
	out := make(map[uuid.UUID]entity.Medicine, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var medicines []entity.Medicine
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&medicines).Error; err != nil {
		return nil, err
	}
	for _, m := range medicines {
		out[m.ID] = m
	}
	return out, nil
}

func (r *medicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	return conn(ctx, r.db).Save(medicine).Error
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Medicine{}).Error
}

// DecrementStock never refuses: stock may go negative and the caller decides
// what to do about it.
func (r *medicineRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	var medicine entity.Medicine
	result := conn(ctx, r.db).Model(&medicine).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domainRepo.ErrNotFound
	}
	return medicine.Stock, nil
}

type clinicServiceRepository struct {
	db *gorm.DB
}

func NewClinicServiceRepository(db *gorm.DB) domainRepo.ClinicServiceRepository {
	return &clinicServiceRepository{db: db}
}

func (r *clinicServiceRepository) Create(ctx context.Context, service *entity.ClinicService) error {
	return translate(conn(ctx, r.db).Create(service).Error)
}

func (r *clinicServiceRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.ClinicService, int64, error) {
	var services []entity.ClinicService
	var total int64

	if err := conn(ctx, r.db).Model(&entity.ClinicService{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := conn(ctx, r.db).Limit(limit).Offset(offset).Order("name ASC").Find(&services).Error; err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

func (r *clinicServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ClinicService, error) {
	var service entity.ClinicService
	err := conn(ctx, r.db).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *clinicServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.ClinicService, error) {
	out := make(map[uuid.UUID]entity.ClinicService, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var services []entity.ClinicService
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	for _, s := range services {
		out[s.ID] = s
	}
	return out, nil
}

func (r *clinicServiceRepository) Update(ctx context.Context, service *entity.ClinicService) error {
	return conn(ctx, r.db).Save(service).Error
}

func (r *clinicServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.ClinicService{}).Error
}
