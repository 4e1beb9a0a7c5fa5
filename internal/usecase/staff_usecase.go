package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPatientSearchLimit = 50

type StaffUsecase interface {
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error)
	ListStaff(ctx context.Context, role string) ([]dto.StaffResponse, error)

	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	SearchPatients(ctx context.Context, name string, limit int) ([]dto.PatientResponse, error)
}

type staffUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	staffRepo    repository.StaffRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewStaffUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	staffRepo repository.StaffRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) StaffUsecase {
	return &staffUsecase{
		log:          log,
		tx:           tx,
		staffRepo:    staffRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *staffUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	role, err := entity.ParseStaffRole(req.Role)
	if err != nil {
		return nil, err
	}

	staff := &entity.Staff{
		ID:             uuid.New(),
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Role:           role,
		Specialization: req.Specialization,
		IsActive:       true,
	}

	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.staffRepo.Create(ctx, staff); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrDuplicateEmail
			}
			u.log.Warnf("Failed to create staff: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionStaffCreate,
			"staff", staff.ID.String(), converter.StaffToResponse(staff))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Staff created: id=%s, role=%s", staff.ID, staff.Role)
	return converter.StaffToResponse(staff), nil
}

func (u *staffUsecase) GetStaff(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error) {
	staff, err := u.staffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return converter.StaffToResponse(staff), nil
}

// ListStaff lists everyone, or one role when role is non-empty.
func (u *staffUsecase) ListStaff(ctx context.Context, role string) ([]dto.StaffResponse, error) {
	var filter entity.StaffRole
	if role != "" {
		parsed, err := entity.ParseStaffRole(role)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	staff, err := u.staffRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list staff: %+v", err)
		return nil, err
	}
	return converter.StaffListToResponses(staff), nil
}

func (u *staffUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	patient := &entity.Patient{
		ID:       uuid.New(),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    req.Phone,
		Gender:   req.Gender,
		Address:  req.Address,
	}
	if req.DateOfBirth != "" {
		dob, err := calendar.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrInvalidInput)
		}
		patient.DateOfBirth = &dob
	}

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.patientRepo.Create(ctx, patient); err != nil {
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionPatientCreate,
			"patient", patient.ID.String(), converter.PatientToResponse(patient))
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *staffUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

func (u *staffUsecase) SearchPatients(ctx context.Context, name string, limit int) ([]dto.PatientResponse, error) {
	if limit <= 0 {
		limit = defaultPatientSearchLimit
	}
	patients, err := u.patientRepo.Search(ctx, strings.TrimSpace(name), limit)
	if err != nil {
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}
