package memory

import (
	"context"
	"slices"
	"strings"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

type medicineRepository struct{ s *Store }

func (s *Store) Medicines() domainRepo.MedicineRepository { return medicineRepository{s} }

func (r medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.medicines[medicine.ID]; ok {
		return domainRepo.ErrDuplicateKey
	}
	stamp(&medicine.CreatedAt, &medicine.UpdatedAt)
	r.s.t.medicines[medicine.ID] = *medicine
	return nil
}

func (r medicineRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Medicine, int64, error) {
	defer r.s.lock(ctx)()
	all := make([]entity.Medicine, 0, len(r.s.t.medicines))
	for _, m := range r.s.t.medicines {
		all = append(all, m)
	}
	slices.SortFunc(all, func(a, b entity.Medicine) int { return strings.Compare(a.Name, b.Name) })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	defer r.s.lock(ctx)()
	m, ok := r.s.t.medicines[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r medicineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.Medicine, error) {
	defer r.s.lock(ctx)()
	out := make(map[uuid.UUID]entity.Medicine, len(ids))
	for _, id := range ids {
		if m, ok := r.s.t.medicines[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r medicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	defer r.s.lock(ctx)()
	stamp(&medicine.CreatedAt, &medicine.UpdatedAt)
	r.s.t.medicines[medicine.ID] = *medicine
	return nil
}

func (r medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.medicines, id)
	return nil
}

func (r medicineRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	defer r.s.lock(ctx)()
	m, ok := r.s.t.medicines[id]
	if !ok {
		return 0, domainRepo.ErrNotFound
	}
	m.Stock -= qty
	stamp(nil, &m.UpdatedAt)
	r.s.t.medicines[id] = m
	return m.Stock, nil
}

type clinicServiceRepository struct{ s *Store }

func (s *Store) ClinicServices() domainRepo.ClinicServiceRepository {
	return clinicServiceRepository{s}
}

func (r clinicServiceRepository) Create(ctx context.Context, service *entity.ClinicService) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.clinicServices[service.ID]; ok {
		return domainRepo.ErrDuplicateKey
	}
	stamp(&service.CreatedAt, &service.UpdatedAt)
	r.s.t.clinicServices[service.ID] = *service
	return nil
}

func (r clinicServiceRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.ClinicService, int64, error) {
	defer r.s.lock(ctx)()
	all := make([]entity.ClinicService, 0, len(r.s.t.clinicServices))
	for _, s := range r.s.t.clinicServices {
		all = append(all, s)
	}
	slices.SortFunc(all, func(a, b entity.ClinicService) int { return strings.Compare(a.Name, b.Name) })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r clinicServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ClinicService, error) {
	defer r.s.lock(ctx)()
	s, ok := r.s.t.clinicServices[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r clinicServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.ClinicService, error) {
	defer r.s.lock(ctx)()
	out := make(map[uuid.UUID]entity.ClinicService, len(ids))
	for _, id := range ids {
		if s, ok := r.s.t.clinicServices[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (r clinicServiceRepository) Update(ctx context.Context, service *entity.ClinicService) error {
	defer r.s.lock(ctx)()
	stamp(&service.CreatedAt, &service.UpdatedAt)
	r.s.t.clinicServices[service.ID] = *service
	return nil
}

func (r clinicServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.clinicServices, id)
	return nil
}
