package service

import (
	"context"
	"errors"
	"testing"

	"ayursetu-backend/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditRepo struct {
	logs []entity.AuditLog
	err  error
}

func (r *fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditRepo) FindAll(ctx context.Context) ([]entity.AuditLog, error) {
	return r.logs, nil
}

func (r *fakeAuditRepo) FindByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	return nil, nil
}

func TestAuditService_RecordsMetadata(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(discardLogger(), repo)

	err := svc.LogUpdate(context.Background(), "u_doctor_1", entity.AuditActionAppointmentStatus, "appointment", "a_1", "Pending", "Confirmed")
	require.NoError(t, err)

	require.Len(t, repo.logs, 1)
	got := repo.logs[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "u_doctor_1", got.UserID)
	assert.Equal(t, entity.AuditActionAppointmentStatus, got.Action)
	assert.Equal(t, "appointment", got.Metadata["entity"])
	assert.Equal(t, "a_1", got.Metadata["entity_id"])
	assert.Equal(t, "Pending", got.Metadata["old_value"])
	assert.Equal(t, "Confirmed", got.Metadata["new_value"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAuditService_ReturnsRepositoryError(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewAuditService(discardLogger(), &fakeAuditRepo{err: boom})

	err := svc.LogDelete(context.Background(), "u_admin_1", entity.AuditActionAppointmentDelete, "appointment", "a_1", nil)
	assert.ErrorIs(t, err, boom)
}
