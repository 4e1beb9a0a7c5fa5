package memory

import (
	"context"
	"slices"
	"strings"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

type staffRepository struct{ s *Store }

func (s *Store) Staff() domainRepo.StaffRepository { return staffRepository{s} }

func (r staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.t.staff {
		if existing.ID == staff.ID || strings.EqualFold(existing.Email, staff.Email) {
			return domainRepo.ErrDuplicateKey
		}
	}
	stamp(&staff.CreatedAt, &staff.UpdatedAt)
	r.s.t.staff[staff.ID] = *staff
	return nil
}

func (r staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	defer r.s.lock(ctx)()
	staff, ok := r.s.t.staff[id]
	if !ok {
		return nil, nil
	}
	return &staff, nil
}

func (r staffRepository) FindAll(ctx context.Context, role entity.StaffRole) ([]entity.Staff, error) {
	defer r.s.lock(ctx)()
	var out []entity.Staff
	for _, staff := range r.s.t.staff {
		if role == "" || staff.Role == role {
			out = append(out, staff)
		}
	}
	slices.SortFunc(out, func(a, b entity.Staff) int { return strings.Compare(a.FullName, b.FullName) })
	return out, nil
}

type patientRepository struct{ s *Store }

func (s *Store) Patients() domainRepo.PatientRepository { return patientRepository{s} }

func (r patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.patients[patient.ID]; ok {
		return domainRepo.ErrDuplicateKey
	}
	stamp(&patient.CreatedAt, &patient.UpdatedAt)
	r.s.t.patients[patient.ID] = *patient
	return nil
}

func (r patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	defer r.s.lock(ctx)()
	patient, ok := r.s.t.patients[id]
	if !ok {
		return nil, nil
	}
	return &patient, nil
}

func (r patientRepository) Search(ctx context.Context, name string, limit int) ([]entity.Patient, error) {
	defer r.s.lock(ctx)()
	needle := strings.ToLower(name)
	var out []entity.Patient
	for _, p := range r.s.t.patients {
		if strings.Contains(strings.ToLower(p.FullName), needle) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b entity.Patient) int { return strings.Compare(a.FullName, b.FullName) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
