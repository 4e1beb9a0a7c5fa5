package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type ScheduleHandler struct {
	calendarUsecase usecase.CalendarUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(calendarUsecase usecase.CalendarUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		calendarUsecase: calendarUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShiftRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	shift, err := h.calendarUsecase.CreateShift(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create shift")
		return
	}

	response.Success(w, http.StatusCreated, "Shift created successfully", shift)
}

func (h *ScheduleHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "shift")
	if !ok {
		return
	}

	if err := h.calendarUsecase.DeleteShift(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete shift")
		return
	}

	response.Success(w, http.StatusOK, "Shift deleted successfully", nil)
}

func (h *ScheduleHandler) SetShiftStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "shift")
	if !ok {
		return
	}

	var req dto.ShiftStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	shift, err := h.calendarUsecase.SetShiftStatus(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update shift status")
		return
	}

	response.Success(w, http.StatusOK, "Shift status updated successfully", shift)
}

func (h *ScheduleHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathID(w, r, "id", "staff")
	if !ok {
		return
	}
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}

	shifts, err := h.calendarUsecase.ListShifts(r.Context(), staffID, from, to)
	if err != nil {
		writeError(w, err, "Failed to get shifts")
		return
	}

	response.Success(w, http.StatusOK, "Shifts retrieved successfully", shifts)
}

// GenerateSlots materialises slots for an existing shift. It is safe to call
// repeatedly.
func (h *ScheduleHandler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateSlotsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}
	label, err := entity.ParseShiftLabel(req.Label)
	if err != nil {
		writeError(w, err, "Failed to generate slots")
		return
	}

	slots, err := h.calendarUsecase.GenerateSlots(r.Context(), req.StaffID, date, label)
	if err != nil {
		writeError(w, err, "Failed to generate slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots generated successfully", slots)
}

func (h *ScheduleHandler) GetDailySchedule(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathID(w, r, "id", "staff")
	if !ok {
		return
	}
	if r.URL.Query().Get("date") == "" {
		response.BadRequest(w, "date is required")
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}

	schedule, err := h.calendarUsecase.GetDailySchedule(r.Context(), staffID, date)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *ScheduleHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	var filter entity.SlotFilter
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
		status, err := entity.ParseSlotStatus(raw)
		if err != nil {
			writeError(w, err, "Failed to get slots")
			return
		}
		filter.Status = status
	}

	slots, err := h.calendarUsecase.ListSlots(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

func (h *ScheduleHandler) SummarizeSlots(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathID(w, r, "id", "staff")
	if !ok {
		return
	}
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}

	rows, err := h.calendarUsecase.SummarizeSlots(r.Context(), staffID, from, to)
	if err != nil {
		writeError(w, err, "Failed to summarize schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule summary retrieved successfully", rows)
}

func (h *ScheduleHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTemplateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	template, err := h.calendarUsecase.CreateTemplate(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create template")
		return
	}

	response.Success(w, http.StatusCreated, "Template created successfully", template)
}

func (h *ScheduleHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathID(w, r, "id", "staff")
	if !ok {
		return
	}

	templates, err := h.calendarUsecase.ListTemplates(r.Context(), staffID)
	if err != nil {
		writeError(w, err, "Failed to get templates")
		return
	}

	response.Success(w, http.StatusOK, "Templates retrieved successfully", templates)
}

func (h *ScheduleHandler) SummarizeTemplates(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathID(w, r, "id", "staff")
	if !ok {
		return
	}

	rows, err := h.calendarUsecase.SummarizeTemplates(r.Context(), staffID)
	if err != nil {
		writeError(w, err, "Failed to summarize templates")
		return
	}

	response.Success(w, http.StatusOK, "Weekly template retrieved successfully", rows)
}
