package usecase

import (
	"context"
	"fmt"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CatalogUsecase manages the priced medicines and clinic services that care
// record lines snapshot from.
type CatalogUsecase interface {
	CreateMedicine(ctx context.Context, req *dto.MedicineRequest) (*dto.MedicineResponse, error)
	ListMedicines(ctx context.Context, page, limit int) ([]dto.MedicineResponse, int64, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, req *dto.MedicineRequest) (*dto.MedicineResponse, error)
	DeleteMedicine(ctx context.Context, id uuid.UUID) error

	CreateService(ctx context.Context, req *dto.ClinicServiceRequest) (*dto.ClinicServiceResponse, error)
	ListServices(ctx context.Context, page, limit int) ([]dto.ClinicServiceResponse, int64, error)
	GetService(ctx context.Context, id uuid.UUID) (*dto.ClinicServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *dto.ClinicServiceRequest) (*dto.ClinicServiceResponse, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type catalogUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	medicineRepo repository.MedicineRepository
	serviceRepo  repository.ClinicServiceRepository
	auditService service.AuditService
}

func NewCatalogUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	medicineRepo repository.MedicineRepository,
	serviceRepo repository.ClinicServiceRepository,
	auditService service.AuditService,
) CatalogUsecase {
	return &catalogUsecase{
		log:          log,
		tx:           tx,
		medicineRepo: medicineRepo,
		serviceRepo:  serviceRepo,
		auditService: auditService,
	}
}

func pageOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return limit, (page - 1) * limit
}

func (u *catalogUsecase) CreateMedicine(ctx context.Context, req *dto.MedicineRequest) (*dto.MedicineResponse, error) {
	if req.SalePrice.IsNegative() {
		return nil, fmt.Errorf("%w: sale price must not be negative", ErrInvalidInput)
	}

	medicine := &entity.Medicine{
		ID:        uuid.New(),
		Name:      req.Name,
		Unit:      req.Unit,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
	}

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.medicineRepo.Create(ctx, medicine); err != nil {
			u.log.Warnf("Failed to create medicine: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionCatalogCreate,
			"medicine", medicine.ID.String(), converter.MedicineToResponse(medicine))
	})
	if err != nil {
		return nil, err
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *catalogUsecase) ListMedicines(ctx context.Context, page, limit int) ([]dto.MedicineResponse, int64, error) {
	limit, offset := pageOffset(page, limit)

	medicines, total, err := u.medicineRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return converter.MedicinesToResponses(medicines), total, nil
}

func (u *catalogUsecase) GetMedicine(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	medicine, err := u.medicineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	return converter.MedicineToResponse(medicine), nil
}

// UpdateMedicine changes the catalog only. Lines already saved keep the
// price they snapshotted.
func (u *catalogUsecase) UpdateMedicine(ctx context.Context, id uuid.UUID, req *dto.MedicineRequest) (*dto.MedicineResponse, error) {
	if req.SalePrice.IsNegative() {
		return nil, fmt.Errorf("%w: sale price must not be negative", ErrInvalidInput)
	}

	var updated *entity.Medicine
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		medicine, err := u.medicineRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if medicine == nil {
			return ErrMedicineNotFound
		}

		before := *converter.MedicineToResponse(medicine)
		medicine.Name = req.Name
		medicine.Unit = req.Unit
		medicine.SalePrice = req.SalePrice
		medicine.Stock = req.Stock

		if err := u.medicineRepo.Update(ctx, medicine); err != nil {
			return err
		}
		updated = medicine

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionCatalogUpdate,
			"medicine", id.String(), before, converter.MedicineToResponse(medicine))
	})
	if err != nil {
		return nil, err
	}

	return converter.MedicineToResponse(updated), nil
}

func (u *catalogUsecase) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		medicine, err := u.medicineRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if medicine == nil {
			return ErrMedicineNotFound
		}

		if err := u.medicineRepo.Delete(ctx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, actorFromContext(ctx), entity.AuditActionCatalogDelete,
			"medicine", id.String(), converter.MedicineToResponse(medicine))
	})
}

func (u *catalogUsecase) CreateService(ctx context.Context, req *dto.ClinicServiceRequest) (*dto.ClinicServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	svc := &entity.ClinicService{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.serviceRepo.Create(ctx, svc); err != nil {
			u.log.Warnf("Failed to create clinic service: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionCatalogCreate,
			"clinic_service", svc.ID.String(), converter.ClinicServiceToResponse(svc))
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicServiceToResponse(svc), nil
}

func (u *catalogUsecase) ListServices(ctx context.Context, page, limit int) ([]dto.ClinicServiceResponse, int64, error) {
	limit, offset := pageOffset(page, limit)

	services, total, err := u.serviceRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return converter.ClinicServicesToResponses(services), total, nil
}

func (u *catalogUsecase) GetService(ctx context.Context, id uuid.UUID) (*dto.ClinicServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	return converter.ClinicServiceToResponse(svc), nil
}

func (u *catalogUsecase) UpdateService(ctx context.Context, id uuid.UUID, req *dto.ClinicServiceRequest) (*dto.ClinicServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	var updated *entity.ClinicService
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		svc, err := u.serviceRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return ErrServiceNotFound
		}

		before := *converter.ClinicServiceToResponse(svc)
		svc.Name = req.Name
		svc.Description = req.Description
		svc.Price = req.Price

		if err := u.serviceRepo.Update(ctx, svc); err != nil {
			return err
		}
		updated = svc

		return u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionCatalogUpdate,
			"clinic_service", id.String(), before, converter.ClinicServiceToResponse(svc))
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicServiceToResponse(updated), nil
}

func (u *catalogUsecase) DeleteService(ctx context.Context, id uuid.UUID) error {
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		svc, err := u.serviceRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return ErrServiceNotFound
		}

		if err := u.serviceRepo.Delete(ctx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, actorFromContext(ctx), entity.AuditActionCatalogDelete,
			"clinic_service", id.String(), converter.ClinicServiceToResponse(svc))
	})
}
