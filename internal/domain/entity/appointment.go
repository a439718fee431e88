package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment.
//
// Convention (not enforced): Pending -> Confirmed | Rejected | Cancelled,
// Confirmed -> Completed | Cancelled.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusRejected  AppointmentStatus = "Rejected"
)

// AppointmentStatuses lists every known status in display order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusRejected,
}

// IsKnown reports whether s is one of AppointmentStatuses.
func (s AppointmentStatus) IsKnown() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Appointment is a booking of one doctor slot by one patient.
type Appointment struct {
	ID           string            `gorm:"type:varchar(64);primaryKey" json:"id"`
	PatientID    string            `gorm:"type:varchar(64);not null;index" json:"patientId"`
	PatientName  string            `gorm:"type:varchar(255)" json:"patientName"`
	PatientEmail string            `gorm:"type:varchar(255)" json:"patientEmail"`
	PatientPhone string            `gorm:"type:varchar(50)" json:"patientPhone"`
	DoctorID     string            `gorm:"type:varchar(64);not null;index" json:"doctorId"`
	DoctorName   string            `gorm:"type:varchar(255)" json:"doctorName"`
	Department   string            `gorm:"type:varchar(100)" json:"department"`
	Date         string            `gorm:"type:varchar(10);not null" json:"date"`
	Time         string            `gorm:"type:varchar(5);not null" json:"time"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Fee          decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	Reason       string            `gorm:"type:text" json:"reason"`
	Notes        string            `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment no longer holds its slot
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// Occupies reports whether a holds the given doctor slot.
func (a *Appointment) Occupies(doctorID, date, slotTime string) bool {
	return a.DoctorID == doctorID && a.Date == date && a.Time == slotTime && !a.IsCancelled()
}
