package jsonstore

import (
	"context"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"
)

type appointmentRepository struct {
	store *filestore.Store
}

func NewAppointmentRepository(store *filestore.Store) domainRepo.AppointmentRepository {
	return &appointmentRepository{store: store}
}

// Create appends appointment, refusing a duplicate id or a slot that another
// non-cancelled appointment already holds. The check and the write share one
// write transaction.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		for i := range appointments {
			if appointments[i].ID == appointment.ID {
				return domainRepo.ErrDuplicateKey
			}
			if !appointment.IsCancelled() && appointments[i].Occupies(appointment.DoctorID, appointment.Date, appointment.Time) {
				return domainRepo.ErrSlotTaken
			}
		}
		return saveAll(tx, CollectionAppointments, append(appointments, *appointment))
	})
}

func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var found *entity.Appointment
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		for i := range appointments {
			if appointments[i].ID == id {
				found = &appointments[i]
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindAll keeps insertion order.
func (r *appointmentRepository) FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var result []entity.Appointment
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		result = make([]entity.Appointment, 0, len(appointments))
		for i := range appointments {
			if filter == nil || filter.Matches(&appointments[i]) {
				result = append(result, appointments[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndDate(ctx context.Context, doctorID, date string) ([]entity.Appointment, error) {
	var result []entity.Appointment
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		result = make([]entity.Appointment, 0)
		for _, a := range appointments {
			if a.DoctorID == doctorID && a.Date == date && !a.IsCancelled() {
				result = append(result, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *appointmentRepository) ExistsActive(ctx context.Context, doctorID, date, slotTime string) (bool, error) {
	var exists bool
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		for i := range appointments {
			if appointments[i].Occupies(doctorID, date, slotTime) {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

// UpdateStatus refuses to reactivate a cancelled appointment whose slot has
// since been taken.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (int64, error) {
	var affected int64
	err := r.store.Update(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		idx := -1
		for i := range appointments {
			if appointments[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		target := appointments[idx]
		if target.IsCancelled() && status != entity.AppointmentStatusCancelled {
			for i := range appointments {
				if i != idx && appointments[i].Occupies(target.DoctorID, target.Date, target.Time) {
					return domainRepo.ErrSlotTaken
				}
			}
		}

		appointments[idx].Status = status
		affected = 1
		return saveAll(tx, CollectionAppointments, appointments)
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := r.store.Update(ctx, func(tx *filestore.Tx) error {
		appointments, err := loadAll[entity.Appointment](tx, CollectionAppointments)
		if err != nil {
			return err
		}
		kept := make([]entity.Appointment, 0, len(appointments))
		for _, a := range appointments {
			if a.ID == id {
				affected++
				continue
			}
			kept = append(kept, a)
		}
		if affected == 0 {
			return nil
		}
		return saveAll(tx, CollectionAppointments, kept)
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
