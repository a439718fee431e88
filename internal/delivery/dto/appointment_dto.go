package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID    string           `json:"patientId" validate:"required"`
	PatientName  string           `json:"patientName" validate:"required"`
	PatientEmail string           `json:"patientEmail" validate:"omitempty,email"`
	PatientPhone string           `json:"patientPhone" validate:"omitempty,max=20"`
	DoctorID     string           `json:"doctorId" validate:"required"`
	DoctorName   string           `json:"doctorName"`
	Department   string           `json:"department"`
	Date         string           `json:"date" validate:"required,isodate"`
	Time         string           `json:"time" validate:"required,hhmm"`
	Fee          *decimal.Decimal `json:"fee"`
	Reason       string           `json:"reason"`
	Notes        string           `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Confirmed Completed Cancelled Rejected"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           string          `json:"id"`
	PatientID    string          `json:"patientId"`
	PatientName  string          `json:"patientName"`
	PatientEmail string          `json:"patientEmail"`
	PatientPhone string          `json:"patientPhone"`
	DoctorID     string          `json:"doctorId"`
	DoctorName   string          `json:"doctorName"`
	Department   string          `json:"department"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Status       string          `json:"status"`
	Fee          decimal.Decimal `json:"fee"`
	Reason       string          `json:"reason"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
