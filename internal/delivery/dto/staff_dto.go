package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateStaffRequest struct {
	FullName       string `json:"full_name" validate:"required,min=3"`
	Email          string `json:"email" validate:"required,email"`
	Role           string `json:"role" validate:"required"`
	Specialization string `json:"specialization" validate:"max=100"`
}

type CreatePatientRequest struct {
	FullName    string `json:"full_name" validate:"required,min=3"`
	Phone       string `json:"phone" validate:"max=30"`
	Gender      string `json:"gender" validate:"omitempty,oneof=M F"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,ymd"`
	Address     string `json:"address"`
}

// Response DTOs

type StaffResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
