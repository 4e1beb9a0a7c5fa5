package repository

import (
	"context"
	"errors"
	"time"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).
		Preload("Patient").
		Preload("Staff").
		Where("appointments.id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := conn(ctx, r.db).Model(&entity.Appointment{})

	if filter.Status != "" {
		query = query.Where("appointments.status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("appointments.appointment_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("appointments.appointment_date <= ?", filter.To)
	}
	if filter.StaffID != uuid.Nil {
		query = query.Where("appointments.staff_id = ?", filter.StaffID)
	}
	if filter.PatientName != "" {
		query = query.
			Joins("JOIN patients ON patients.id = appointments.patient_id").
			Where("patients.full_name ILIKE ?", "%"+filter.PatientName+"%")
	}

	err := query.
		Preload("Patient").
		Preload("Staff").
		Order("appointments.starts_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindScheduledBefore(ctx context.Context, cutoff time.Time, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := conn(ctx, r.db).
		Where("status = ? AND starts_at < ?", entity.AppointmentStatusScheduled, cutoff).
		Order("starts_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

type receptionRepository struct {
	db *gorm.DB
}

func NewReceptionRepository(db *gorm.DB) domainRepo.ReceptionRepository {
	return &receptionRepository{db: db}
}

// Create leans on the partial unique index over live appointment_id values.
func (r *receptionRepository) Create(ctx context.Context, reception *entity.Reception) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(reception).Error)
}

func (r *receptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reception, error) {
	var reception entity.Reception
	err := conn(ctx, r.db).Preload("Patient").Where("id = ?", id).First(&reception).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reception, nil
}

func (r *receptionRepository) FindAll(ctx context.Context, filter entity.ReceptionFilter) ([]entity.Reception, error) {
	var receptions []entity.Reception
	query := conn(ctx, r.db)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.Date.IsZero() {
		query = query.Where("reception_date = ?", filter.Date)
	}
	err := query.Preload("Patient").Order("reception_date ASC, queue_number ASC").Find(&receptions).Error
	if err != nil {
		return nil, err
	}
	return receptions, nil
}

func (r *receptionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReceptionStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Reception{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *receptionRepository) MaxQueueNumber(ctx context.Context, date time.Time) (int, error) {
	var highest int
	err := conn(ctx, r.db).Model(&entity.Reception{}).
		Select("COALESCE(MAX(queue_number), 0)").
		Where("reception_date = ?", date).
		Scan(&highest).Error
	return highest, err
}
