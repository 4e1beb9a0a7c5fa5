package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
)

// SlotToResponse converts a Slot entity. isPast and isToday are computed by
// the caller, which knows the clinic clock.
func SlotToResponse(slot *entity.Slot, isPast, isToday bool) dto.SlotResponse {
	return dto.SlotResponse{
		ID:        slot.ID,
		StaffID:   slot.StaffID,
		ShiftID:   slot.ShiftID,
		Date:      slot.SlotDate.Format(calendar.DateLayout),
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Status:    string(slot.Status),
		IsPast:    isPast,
		IsToday:   isToday,
	}
}

// ShiftToResponse converts a ShiftSchedule without its slots.
func ShiftToResponse(shift *entity.ShiftSchedule) *dto.ShiftResponse {
	if shift == nil {
		return nil
	}
	return &dto.ShiftResponse{
		ID:          shift.ID,
		StaffID:     shift.StaffID,
		WorkDate:    shift.WorkDate.Format(calendar.DateLayout),
		Label:       string(shift.Label),
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		SlotMinutes: shift.SlotMinutes,
		Status:      string(shift.Status),
	}
}

func ShiftsToResponses(shifts []entity.ShiftSchedule) []dto.ShiftResponse {
	responses := make([]dto.ShiftResponse, len(shifts))
	for i := range shifts {
		responses[i] = *ShiftToResponse(&shifts[i])
	}
	return responses
}

func TemplateToResponse(tpl *entity.ScheduleTemplate) *dto.TemplateResponse {
	if tpl == nil {
		return nil
	}
	return &dto.TemplateResponse{
		ID:          tpl.ID,
		StaffID:     tpl.StaffID,
		Weekday:     tpl.Weekday.String(),
		Label:       string(tpl.Label),
		StartTime:   tpl.StartTime,
		EndTime:     tpl.EndTime,
		SlotMinutes: tpl.SlotMinutes,
		IsActive:    tpl.IsActive,
	}
}

func TemplatesToResponses(templates []entity.ScheduleTemplate) []dto.TemplateResponse {
	responses := make([]dto.TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = *TemplateToResponse(&templates[i])
	}
	return responses
}

func ScheduleRowsToResponses(rows []calendar.Row) []dto.ScheduleRowResponse {
	responses := make([]dto.ScheduleRowResponse, len(rows))
	for i, r := range rows {
		responses[i] = dto.ScheduleRowResponse{Day: r.DayKey, Start: r.Start, End: r.End, Slots: r.Slots}
	}
	return responses
}
