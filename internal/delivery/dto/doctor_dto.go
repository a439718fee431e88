package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// UpdateDoctorRequest is a partial update; nil fields are left unchanged.
type UpdateDoctorRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=2"`
	Phone           *string          `json:"phone" validate:"omitempty,max=20"`
	Bio             *string          `json:"bio"`
	Department      *string          `json:"department" validate:"omitempty,min=1,max=100"`
	Specialization  *string          `json:"specialization" validate:"omitempty,min=1,max=100"`
	Qualifications  []string         `json:"qualifications"`
	ConsultationFee *decimal.Decimal `json:"consultationFee"`
	Status          *string          `json:"status" validate:"omitempty,max=50"`
}

type WorkingHoursRequest struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

type UpdateScheduleRequest struct {
	WorkingDays  []string            `json:"workingDays" validate:"required,min=1,dive,weekday"`
	WorkingHours WorkingHoursRequest `json:"workingHours"`
	SlotMinutes  int                 `json:"slotMinutes" validate:"required,gte=5,lte=240"`
}

// Response DTOs

type WorkingHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DoctorResponse struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId,omitempty"`
	Name            string               `json:"name"`
	Email           string               `json:"email,omitempty"`
	Phone           string               `json:"phone"`
	Bio             string               `json:"bio"`
	Department      string               `json:"department"`
	Specialization  string               `json:"specialization"`
	Qualifications  []string             `json:"qualifications"`
	WorkingDays     []string             `json:"workingDays"`
	WorkingHours    WorkingHoursResponse `json:"workingHours"`
	SlotMinutes     int                  `json:"slotMinutes"`
	ConsultationFee decimal.Decimal      `json:"consultationFee"`
	Appointments    []string             `json:"appointments"`
	Status          string               `json:"status,omitempty"`
	Rating          float64              `json:"rating,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type SlotResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type AvailableSlotsResponse struct {
	DoctorID string         `json:"doctorId"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}
