package repository

import (
	"context"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.Medicine, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.Medicine, error)
	Update(ctx context.Context, medicine *entity.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DecrementStock subtracts qty and returns the stock left afterwards.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error)
}

type ClinicServiceRepository interface {
	Create(ctx context.Context, service *entity.ClinicService) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.ClinicService, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ClinicService, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.ClinicService, error)
	Update(ctx context.Context, service *entity.ClinicService) error
	Delete(ctx context.Context, id uuid.UUID) error
}
