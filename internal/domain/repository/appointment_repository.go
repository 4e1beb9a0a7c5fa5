package repository

import (
	"context"
	"time"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindScheduledBefore returns SCHEDULED appointments starting before cutoff,
	// oldest first.
	FindScheduledBefore(ctx context.Context, cutoff time.Time, limit int) ([]entity.Appointment, error)
	// TransitionStatus is a compare-and-swap on status; 0 rows means the
	// appointment was not in `from`.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
}

type ReceptionRepository interface {
	// Create fails with ErrDuplicateKey when the appointment already feeds a
	// non-cancelled reception.
	Create(ctx context.Context, reception *entity.Reception) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reception, error)
	FindAll(ctx context.Context, filter entity.ReceptionFilter) ([]entity.Reception, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReceptionStatus) (int64, error)
	// MaxQueueNumber returns the highest queue number issued on date, or 0.
	MaxQueueNumber(ctx context.Context, date time.Time) (int, error)
}
