package repository

import (
	"context"

	"ayursetu-backend/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindAll(ctx context.Context) ([]entity.AuditLog, error)
	FindByID(ctx context.Context, id string) (*entity.AuditLog, error)
}
