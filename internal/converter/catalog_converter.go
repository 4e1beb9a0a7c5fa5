package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
)

func MedicineToResponse(m *entity.Medicine) *dto.MedicineResponse {
	if m == nil {
		return nil
	}
	return &dto.MedicineResponse{
		ID:        m.ID,
		Name:      m.Name,
		Unit:      m.Unit,
		SalePrice: m.SalePrice,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func MedicinesToResponses(medicines []entity.Medicine) []dto.MedicineResponse {
	responses := make([]dto.MedicineResponse, len(medicines))
	for i := range medicines {
		responses[i] = *MedicineToResponse(&medicines[i])
	}
	return responses
}

func ClinicServiceToResponse(s *entity.ClinicService) *dto.ClinicServiceResponse {
	if s == nil {
		return nil
	}
	return &dto.ClinicServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ClinicServicesToResponses(services []entity.ClinicService) []dto.ClinicServiceResponse {
	responses := make([]dto.ClinicServiceResponse, len(services))
	for i := range services {
		responses[i] = *ClinicServiceToResponse(&services[i])
	}
	return responses
}
