package postgres

import (
	"context"
	"errors"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create relies on uq_appointments_active_slot: a second active booking of
// the same slot fails with ErrSlotTaken.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return translateError(conn(ctx, r.db).Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := conn(ctx, r.db).Model(&entity.Appointment{})

	if filter != nil {
		if filter.PatientID != "" {
			query = query.Where("patient_id = ?", filter.PatientID)
		}
		if filter.DoctorID != "" {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
	}

	appointments := make([]entity.Appointment, 0)
	err := query.Order("created_at ASC, id ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndDate(ctx context.Context, doctorID, date string) ([]entity.Appointment, error) {
	appointments := make([]entity.Appointment, 0)
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, entity.AppointmentStatusCancelled).
		Order("time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ExistsActive(ctx context.Context, doctorID, date, slotTime string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?", doctorID, date, slotTime, entity.AppointmentStatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus returns affected rows: 1 = updated, 0 = no such appointment.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, translateError(result.Error)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
