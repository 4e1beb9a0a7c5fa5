package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
)

// StaffToResponse converts a Staff entity to StaffResponse DTO
func StaffToResponse(staff *entity.Staff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}
	return &dto.StaffResponse{
		ID:             staff.ID,
		FullName:       staff.FullName,
		Email:          staff.Email,
		Role:           string(staff.Role),
		Specialization: staff.Specialization,
		IsActive:       staff.IsActive,
		CreatedAt:      staff.CreatedAt,
	}
}

func StaffListToResponses(staff []entity.Staff) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(staff))
	for i := range staff {
		responses[i] = *StaffToResponse(&staff[i])
	}
	return responses
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:        patient.ID,
		FullName:  patient.FullName,
		Phone:     patient.Phone,
		Gender:    patient.Gender,
		Address:   patient.Address,
		CreatedAt: patient.CreatedAt,
	}
	if patient.DateOfBirth != nil {
		response.DateOfBirth = patient.DateOfBirth.Format(calendar.DateLayout)
	}
	return response
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
