package repository

import (
	"context"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	FindAll(ctx context.Context, role entity.StaffRole) ([]entity.Staff, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	Search(ctx context.Context, name string, limit int) ([]entity.Patient, error)
}
