package service

import (
	"context"
	"time"

	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService records who changed what. Callers log after their own unit of
// work has committed and ignore the returned error beyond logging it.
type AuditService interface {
	LogCreate(ctx context.Context, userID string, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
	now       func() time.Time
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, userID string, action string, entityName string, entityID string, newValue interface{}) error {
	return s.record(ctx, userID, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.record(ctx, userID, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.record(ctx, userID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) record(ctx context.Context, userID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		ID:     uuid.New().String(),
		UserID: userID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
