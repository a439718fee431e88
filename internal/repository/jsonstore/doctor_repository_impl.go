package jsonstore

import (
	"context"
	"strings"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"
)

type doctorRepository struct {
	store *filestore.Store
}

func NewDoctorRepository(store *filestore.Store) domainRepo.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		doctors, err := loadAll[entity.Doctor](tx, CollectionDoctors)
		if err != nil {
			return err
		}
		for _, d := range doctors {
			if d.ID == doctor.ID {
				return domainRepo.ErrDuplicateKey
			}
		}
		return saveAll(tx, CollectionDoctors, append(doctors, *doctor))
	})
}

func (r *doctorRepository) FindByID(ctx context.Context, id string) (*entity.Doctor, error) {
	var found *entity.Doctor
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		doctors, err := loadAll[entity.Doctor](tx, CollectionDoctors)
		if err != nil {
			return err
		}
		for i := range doctors {
			if doctors[i].ID == id {
				found = &doctors[i]
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

// FindAll supports optional filters: department (exact) and a free-text query
// over name and specialization.
func (r *doctorRepository) FindAll(ctx context.Context, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	var result []entity.Doctor
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		doctors, err := loadAll[entity.Doctor](tx, CollectionDoctors)
		if err != nil {
			return err
		}
		result = make([]entity.Doctor, 0, len(doctors))
		for _, d := range doctors {
			if matchesDoctor(&d, filter) {
				result = append(result, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func matchesDoctor(d *entity.Doctor, filter *entity.DoctorFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Department != "" && d.Department != filter.Department {
		return false
	}
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(d.Name), q) && !strings.Contains(strings.ToLower(d.Specialization), q) {
			return false
		}
	}
	return true
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		doctors, err := loadAll[entity.Doctor](tx, CollectionDoctors)
		if err != nil {
			return err
		}
		for i := range doctors {
			if doctors[i].ID == doctor.ID {
				doctors[i] = *doctor
				return saveAll(tx, CollectionDoctors, doctors)
			}
		}
		return nil
	})
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		doctors, err := loadAll[entity.Doctor](tx, CollectionDoctors)
		count = int64(len(doctors))
		return err
	})
	return count, err
}
