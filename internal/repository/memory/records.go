package memory

import (
	"context"
	"slices"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

// Line slices are treated as immutable once stored: every edit builds a new
// slice so a transaction snapshot never sees the change.
type careRecordRepository struct{ s *Store }

func (s *Store) Records() domainRepo.CareRecordRepository { return careRecordRepository{s} }

func (r careRecordRepository) Create(ctx context.Context, record *entity.CareEpisodeRecord) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.t.records {
		if existing.ID == record.ID || existing.ReceptionID == record.ReceptionID {
			return domainRepo.ErrDuplicateKey
		}
	}
	stamp(&record.CreatedAt, &record.UpdatedAt)
	row := *record
	row.Prescriptions = nil
	row.Services = nil
	r.s.t.records[record.ID] = row
	return nil
}

func (r careRecordRepository) withLines(rec entity.CareEpisodeRecord) *entity.CareEpisodeRecord {
	rec.Prescriptions = slices.Clone(r.s.t.prescriptions[rec.ID])
	rec.Services = slices.Clone(r.s.t.serviceLines[rec.ID])
	slices.SortStableFunc(rec.Services, func(a, b entity.ServiceLine) int { return a.Position - b.Position })
	return &rec
}

func (r careRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CareEpisodeRecord, error) {
	defer r.s.lock(ctx)()
	rec, ok := r.s.t.records[id]
	if !ok {
		return nil, nil
	}
	return r.withLines(rec), nil
}

func (r careRecordRepository) FindByReceptionID(ctx context.Context, receptionID uuid.UUID) (*entity.CareEpisodeRecord, error) {
	defer r.s.lock(ctx)()
	for _, rec := range r.s.t.records {
		if rec.ReceptionID == receptionID {
			return r.withLines(rec), nil
		}
	}
	return nil, nil
}

func (r careRecordRepository) UpdateNotes(ctx context.Context, record *entity.CareEpisodeRecord) error {
	defer r.s.lock(ctx)()
	rec, ok := r.s.t.records[record.ID]
	if !ok {
		return domainRepo.ErrNotFound
	}
	rec.Symptoms = record.Symptoms
	rec.Diagnosis = record.Diagnosis
	rec.DiseaseType = record.DiseaseType
	rec.Notes = record.Notes
	stamp(nil, &rec.UpdatedAt)
	r.s.t.records[rec.ID] = rec
	return nil
}

func (r careRecordRepository) AddPrescriptionLine(ctx context.Context, line *entity.PrescriptionLine) error {
	defer r.s.lock(ctx)()
	stamp(&line.CreatedAt, nil)
	lines := r.s.t.prescriptions[line.RecordID]
	r.s.t.prescriptions[line.RecordID] = append(slices.Clip(lines), *line)
	return nil
}

func (r careRecordRepository) DeletePrescriptionLine(ctx context.Context, recordID, lineID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()
	lines := r.s.t.prescriptions[recordID]
	kept := slices.DeleteFunc(slices.Clone(lines), func(l entity.PrescriptionLine) bool { return l.ID == lineID })
	r.s.t.prescriptions[recordID] = kept
	return int64(len(lines) - len(kept)), nil
}

func (r careRecordRepository) ReplacePrescriptionLines(ctx context.Context, recordID uuid.UUID, lines []entity.PrescriptionLine) error {
	defer r.s.lock(ctx)()
	fresh := make([]entity.PrescriptionLine, len(lines))
	for i, l := range lines {
		stamp(&l.CreatedAt, nil)
		fresh[i] = l
	}
	r.s.t.prescriptions[recordID] = fresh
	return nil
}

func (r careRecordRepository) AddServiceLine(ctx context.Context, line *entity.ServiceLine) error {
	defer r.s.lock(ctx)()
	stamp(&line.CreatedAt, nil)
	lines := r.s.t.serviceLines[line.RecordID]
	r.s.t.serviceLines[line.RecordID] = append(slices.Clip(lines), *line)
	return nil
}

func (r careRecordRepository) DeleteServiceLine(ctx context.Context, recordID, lineID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()
	lines := r.s.t.serviceLines[recordID]
	kept := slices.DeleteFunc(slices.Clone(lines), func(l entity.ServiceLine) bool { return l.ID == lineID })
	r.s.t.serviceLines[recordID] = kept
	return int64(len(lines) - len(kept)), nil
}

func (r careRecordRepository) ReplaceServiceLines(ctx context.Context, recordID uuid.UUID, lines []entity.ServiceLine) error {
	defer r.s.lock(ctx)()
	fresh := make([]entity.ServiceLine, len(lines))
	for i, l := range lines {
		stamp(&l.CreatedAt, nil)
		fresh[i] = l
	}
	r.s.t.serviceLines[recordID] = fresh
	return nil
}
