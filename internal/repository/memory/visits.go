package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

type appointmentRepository struct{ s *Store }

func (s *Store) Appointments() domainRepo.AppointmentRepository { return appointmentRepository{s} }

func (r appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.appointments[appointment.ID]; ok {
		return domainRepo.ErrDuplicateKey
	}
	stamp(&appointment.CreatedAt, &appointment.UpdatedAt)
	row := *appointment
	row.Patient = entity.Patient{}
	row.Staff = entity.Staff{}
	r.s.t.appointments[appointment.ID] = row
	return nil
}

func (r appointmentRepository) hydrate(a entity.Appointment) entity.Appointment {
	a.Patient = r.s.t.patients[a.PatientID]
	a.Staff = r.s.t.staff[a.StaffID]
	return a
}

func (r appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	defer r.s.lock(ctx)()
	a, ok := r.s.t.appointments[id]
	if !ok {
		return nil, nil
	}
	a = r.hydrate(a)
	return &a, nil
}

func (r appointmentRepository) FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	defer r.s.lock(ctx)()
	needle := strings.ToLower(filter.PatientName)
	var out []entity.Appointment
	for _, a := range r.s.t.appointments {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && a.AppointmentDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.AppointmentDate.After(filter.To) {
			continue
		}
		if filter.StaffID != uuid.Nil && a.StaffID != filter.StaffID {
			continue
		}
		a = r.hydrate(a)
		if needle != "" && !strings.Contains(strings.ToLower(a.Patient.FullName), needle) {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b entity.Appointment) int { return a.StartsAt.Compare(b.StartsAt) })
	return out, nil
}

func (r appointmentRepository) FindScheduledBefore(ctx context.Context, cutoff time.Time, limit int) ([]entity.Appointment, error) {
	defer r.s.lock(ctx)()
	var out []entity.Appointment
	for _, a := range r.s.t.appointments {
		if a.Status == entity.AppointmentStatusScheduled && a.StartsAt.Before(cutoff) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b entity.Appointment) int { return a.StartsAt.Compare(b.StartsAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r appointmentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	defer r.s.lock(ctx)()
	a, ok := r.s.t.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	stamp(nil, &a.UpdatedAt)
	r.s.t.appointments[id] = a
	return 1, nil
}

type receptionRepository struct{ s *Store }

func (s *Store) Receptions() domainRepo.ReceptionRepository { return receptionRepository{s} }

func (r receptionRepository) Create(ctx context.Context, reception *entity.Reception) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.t.receptions {
		if existing.ID == reception.ID {
			return domainRepo.ErrDuplicateKey
		}
		if reception.AppointmentID != nil && existing.AppointmentID != nil &&
			*existing.AppointmentID == *reception.AppointmentID &&
			existing.Status != entity.ReceptionStatusCancelled {
			return domainRepo.ErrDuplicateKey
		}
	}
	stamp(&reception.CreatedAt, &reception.UpdatedAt)
	row := *reception
	row.Patient = entity.Patient{}
	r.s.t.receptions[reception.ID] = row
	return nil
}

func (r receptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reception, error) {
	defer r.s.lock(ctx)()
	rec, ok := r.s.t.receptions[id]
	if !ok {
		return nil, nil
	}
	rec.Patient = r.s.t.patients[rec.PatientID]
	return &rec, nil
}

func (r receptionRepository) FindAll(ctx context.Context, filter entity.ReceptionFilter) ([]entity.Reception, error) {
	defer r.s.lock(ctx)()
	var out []entity.Reception
	for _, rec := range r.s.t.receptions {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if !filter.Date.IsZero() && !rec.ReceptionDate.Equal(filter.Date) {
			continue
		}
		rec.Patient = r.s.t.patients[rec.PatientID]
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b entity.Reception) int {
		if c := a.ReceptionDate.Compare(b.ReceptionDate); c != 0 {
			return c
		}
		return a.QueueNumber - b.QueueNumber
	})
	return out, nil
}

func (r receptionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReceptionStatus) (int64, error) {
	defer r.s.lock(ctx)()
	rec, ok := r.s.t.receptions[id]
	if !ok || rec.Status != from {
		return 0, nil
	}
	rec.Status = to
	stamp(nil, &rec.UpdatedAt)
	r.s.t.receptions[id] = rec
	return 1, nil
}

func (r receptionRepository) MaxQueueNumber(ctx context.Context, date time.Time) (int, error) {
	defer r.s.lock(ctx)()
	highest := 0
	for _, rec := range r.s.t.receptions {
		if rec.ReceptionDate.Equal(date) && rec.QueueNumber > highest {
			highest = rec.QueueNumber
		}
	}
	return highest, nil
}
