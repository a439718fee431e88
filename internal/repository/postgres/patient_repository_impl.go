package postgres

import (
	"context"
	"errors"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return translateError(conn(ctx, r.db).Create(patient).Error)
}

func (r *patientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	var patient entity.Patient
	err := lockingConn(ctx, r.db).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAll(ctx context.Context) ([]entity.Patient, error) {
	patients := make([]entity.Patient, 0)
	err := conn(ctx, r.db).Order("created_at ASC, id ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return translateError(conn(ctx, r.db).Save(patient).Error)
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Patient{}).Count(&count).Error
	return count, err
}
