package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		StaffID:   a.StaffID,
		SlotID:    a.SlotID,
		Date:      a.AppointmentDate.Format(calendar.DateLayout),
		Time:      a.AppointmentTime,
		StartsAt:  a.StartsAt,
		Status:    string(a.Status),
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	// Include names if relations were loaded
	if a.Patient.ID != uuid.Nil {
		response.PatientName = a.Patient.FullName
	}
	if a.Staff.ID != uuid.Nil {
		response.StaffName = a.Staff.FullName
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// ReceptionToResponse converts a Reception entity to ReceptionResponse DTO
func ReceptionToResponse(r *entity.Reception) *dto.ReceptionResponse {
	if r == nil {
		return nil
	}

	response := &dto.ReceptionResponse{
		ID:             r.ID,
		PatientID:      r.PatientID,
		ReceptionistID: r.ReceptionistID,
		AppointmentID:  r.AppointmentID,
		Date:           r.ReceptionDate.Format(calendar.DateLayout),
		QueueNumber:    r.QueueNumber,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Patient.ID != uuid.Nil {
		response.PatientName = r.Patient.FullName
	}
	return response
}

func ReceptionsToResponses(receptions []entity.Reception) []dto.ReceptionResponse {
	responses := make([]dto.ReceptionResponse, len(receptions))
	for i := range receptions {
		responses[i] = *ReceptionToResponse(&receptions[i])
	}
	return responses
}
