package repository

import (
	"context"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

type CareRecordRepository interface {
	// Create fails with ErrDuplicateKey if the reception already has a record.
	Create(ctx context.Context, record *entity.CareEpisodeRecord) error
	// FindByID loads the record with its prescription and service lines.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CareEpisodeRecord, error)
	FindByReceptionID(ctx context.Context, receptionID uuid.UUID) (*entity.CareEpisodeRecord, error)
	UpdateNotes(ctx context.Context, record *entity.CareEpisodeRecord) error

	AddPrescriptionLine(ctx context.Context, line *entity.PrescriptionLine) error
	DeletePrescriptionLine(ctx context.Context, recordID, lineID uuid.UUID) (int64, error)
	ReplacePrescriptionLines(ctx context.Context, recordID uuid.UUID, lines []entity.PrescriptionLine) error

	AddServiceLine(ctx context.Context, line *entity.ServiceLine) error
	DeleteServiceLine(ctx context.Context, recordID, lineID uuid.UUID) (int64, error)
	ReplaceServiceLines(ctx context.Context, recordID uuid.UUID, lines []entity.ServiceLine) error
}
