package jsonstore

import (
	"context"

	"ayursetu-backend/internal/domain/entity"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/filestore"
)

type auditLogRepository struct {
	store *filestore.Store
}

func NewAuditLogRepository(store *filestore.Store) domainRepo.AuditLogRepository {
	return &auditLogRepository{store: store}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.store.Update(ctx, func(tx *filestore.Tx) error {
		logs, err := loadAll[entity.AuditLog](tx, CollectionAuditLogs)
		if err != nil {
			return err
		}
		return saveAll(tx, CollectionAuditLogs, append(logs, *log))
	})
}

// FindAll returns the newest entries first.
func (r *auditLogRepository) FindAll(ctx context.Context) ([]entity.AuditLog, error) {
	var result []entity.AuditLog
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		logs, err := loadAll[entity.AuditLog](tx, CollectionAuditLogs)
		if err != nil {
			return err
		}
		result = make([]entity.AuditLog, 0, len(logs))
		for i := len(logs) - 1; i >= 0; i-- {
			result = append(result, logs[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	var found *entity.AuditLog
	err := r.store.View(ctx, func(tx *filestore.Tx) error {
		logs, err := loadAll[entity.AuditLog](tx, CollectionAuditLogs)
		if err != nil {
			return err
		}
		for i := range logs {
			if logs[i].ID == id {
				found = &logs[i]
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
