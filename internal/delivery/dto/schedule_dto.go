package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateShiftRequest struct {
	StaffID     uuid.UUID `json:"staff_id" validate:"required"`
	WorkDate    string    `json:"work_date" validate:"required,ymd"` // YYYY-MM-DD
	Label       string    `json:"label" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required,clock"` // HH:MM
	EndTime     string    `json:"end_time" validate:"required,clock"`
	SlotMinutes int       `json:"slot_minutes" validate:"gte=0,lte=480"` // 0 = configured default
}

type ShiftStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type GenerateSlotsRequest struct {
	StaffID uuid.UUID `json:"staff_id" validate:"required"`
	Date    string    `json:"date" validate:"required,ymd"`
	Label   string    `json:"label" validate:"required"`
}

type CreateTemplateRequest struct {
	StaffID     uuid.UUID `json:"staff_id" validate:"required"`
	Weekday     string    `json:"weekday" validate:"required"`
	Label       string    `json:"label" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required,clock"`
	EndTime     string    `json:"end_time" validate:"required,clock"`
	SlotMinutes int       `json:"slot_minutes" validate:"gte=0,lte=480"`
	IsActive    *bool     `json:"is_active"`
}

// Response DTOs

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	ShiftID   uuid.UUID `json:"shift_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
	IsPast    bool      `json:"is_past"`
	IsToday   bool      `json:"is_today"`
}

type ShiftResponse struct {
	ID          uuid.UUID      `json:"id"`
	StaffID     uuid.UUID      `json:"staff_id"`
	WorkDate    string         `json:"work_date"`
	Label       string         `json:"label"`
	StartTime   string         `json:"start_time"`
	EndTime     string         `json:"end_time"`
	SlotMinutes int            `json:"slot_minutes"`
	Status      string         `json:"status"`
	Slots       []SlotResponse `json:"slots,omitempty"`
}

type DailyScheduleResponse struct {
	StaffID uuid.UUID       `json:"staff_id"`
	Date    string          `json:"date"`
	IsPast  bool            `json:"is_past"`
	IsToday bool            `json:"is_today"`
	Shifts  []ShiftResponse `json:"shifts"`
}

type TemplateResponse struct {
	ID          uuid.UUID `json:"id"`
	StaffID     uuid.UUID `json:"staff_id"`
	Weekday     string    `json:"weekday"`
	Label       string    `json:"label"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	SlotMinutes int       `json:"slot_minutes"`
	IsActive    bool      `json:"is_active"`
}

// ScheduleRowResponse is one merged range of a schedule summary.
type ScheduleRowResponse struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
	Slots int    `json:"slots"`
}
