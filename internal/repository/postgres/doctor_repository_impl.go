package postgres

import (
	"context"
	"errors"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return translateError(conn(ctx, r.db).Create(doctor).Error)
}

func (r *doctorRepository) FindByID(ctx context.Context, id string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := lockingConn(ctx, r.db).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	query := conn(ctx, r.db).Model(&entity.Doctor{})

	if filter != nil {
		if filter.Department != "" {
			query = query.Where("department = ?", filter.Department)
		}
		if filter.Query != "" {
			pattern := "%" + filter.Query + "%"
			query = query.Where("name ILIKE ? OR specialization ILIKE ?", pattern, pattern)
		}
	}

	doctors := make([]entity.Doctor, 0)
	err := query.Order("created_at ASC, id ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return translateError(conn(ctx, r.db).Save(doctor).Error)
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Doctor{}).Count(&count).Error
	return count, err
}
