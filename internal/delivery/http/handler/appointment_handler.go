package handler

import (
	"net/http"
	"time"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	noShowGrace        time.Duration
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, noShowGrace time.Duration) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		noShowGrace:        noShowGrace,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	filter := entity.AppointmentFilter{PatientName: r.URL.Query().Get("patient_name")}
	var ok bool
	if filter.StaffID, ok = queryUUID(w, r, "staff_id"); !ok {
		return
	}
	if filter.From, ok = queryDate(w, r, "from"); !ok {
		return
	}
	if filter.To, ok = queryDate(w, r, "to"); !ok {
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := entity.ParseAppointmentStatus(raw)
		if err != nil {
			writeError(w, err, "Failed to get appointments")
			return
		}
		filter.Status = status
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.ChangeAppointmentStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to change appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// SweepNoShows runs the sweep on demand. Without a cutoff in the body it uses
// the same now-minus-grace cutoff as the cron job.
func (h *AppointmentHandler) SweepNoShows(w http.ResponseWriter, r *http.Request) {
	var req dto.SweepNoShowsRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	cutoff := time.Now().Add(-h.noShowGrace)
	if req.Cutoff != nil {
		cutoff = *req.Cutoff
	}

	n, err := h.appointmentUsecase.SweepNoShows(r.Context(), cutoff)
	if err != nil {
		writeError(w, err, "Failed to sweep no-shows")
		return
	}

	response.Success(w, http.StatusOK, "No-show sweep finished", dto.SweepNoShowsResponse{Cutoff: cutoff, Transitioned: n})
}
