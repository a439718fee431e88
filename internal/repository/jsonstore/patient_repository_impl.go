package jsonstore

import (
	"context"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"
)

type patientRepository struct {
	store *filestore.Store
}

func NewPatientRepository(store *filestore.Store) domainRepo.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		patients, err := loadAll[entity.Patient](tx, CollectionPatients)
		if err != nil {
			return err
		}
		for _, p := range patients {
			if p.ID == patient.ID {
				return domainRepo.ErrDuplicateKey
			}
		}
		return saveAll(tx, CollectionPatients, append(patients, *patient))
	})
}

func (r *patientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	var found *entity.Patient
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		patients, err := loadAll[entity.Patient](tx, CollectionPatients)
		if err != nil {
			return err
		}
		for i := range patients {
			if patients[i].ID == id {
				found = &patients[i]
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

func (r *patientRepository) FindAll(ctx context.Context) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		var err error
		patients, err = loadAll[entity.Patient](tx, CollectionPatients)
		return err
	})
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []entity.Patient{}
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		patients, err := loadAll[entity.Patient](tx, CollectionPatients)
		if err != nil {
			return err
		}
		for i := range patients {
			if patients[i].ID == patient.ID {
				patients[i] = *patient
				return saveAll(tx, CollectionPatients, patients)
			}
		}
		return nil
	})
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		patients, err := loadAll[entity.Patient](tx, CollectionPatients)
		count = int64(len(patients))
		return err
	})
	return count, err
}
