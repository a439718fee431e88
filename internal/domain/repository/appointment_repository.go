package repository

import (
	"context"

	"ayursetu-backend/internal/domain/entity"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindActiveByDoctorAndDate returns the non-cancelled appointments of a
	// doctor on one date.
	FindActiveByDoctorAndDate(ctx context.Context, doctorID, date string) ([]entity.Appointment, error)
	// ExistsActive reports whether a non-cancelled appointment holds the slot.
	ExistsActive(ctx context.Context, doctorID, date, slotTime string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}
