package repository

import (
	"context"

	"ayursetu-backend/internal/domain/entity"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id string) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter *entity.DoctorFilter) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	Count(ctx context.Context) (int64, error)
}
