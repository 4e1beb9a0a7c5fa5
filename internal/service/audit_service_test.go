package service

import (
	"context"
	"errors"
	"testing"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditServiceWritesMetadata(t *testing.T) {
	store := memory.NewStore()
	audit := NewAuditService(quietLogger(), store.AuditLogs())
	actor := uuid.New()

	require.NoError(t, audit.LogUpdate(context.Background(), &actor, entity.AuditActionInvoiceSettle, "invoice", "inv-1",
		map[string]interface{}{"status": "UNPAID"}, map[string]interface{}{"status": "PAID"}))

	logs, err := store.AuditLogs().FindAll(context.Background(), entity.AuditLogFilter{EntityName: "invoice"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, &actor, logs[0].ActorID)
	assert.Equal(t, "inv-1", logs[0].EntityID)
	assert.Contains(t, logs[0].Metadata, "old_value")
	assert.Contains(t, logs[0].Metadata, "new_value")
}

type failingAuditRepo struct{}

func (failingAuditRepo) Create(context.Context, *entity.AuditLog) error { return errors.New("disk full") }
func (failingAuditRepo) FindAll(context.Context, entity.AuditLogFilter) ([]entity.AuditLog, error) {
	return nil, nil
}
func (failingAuditRepo) FindByID(context.Context, int64) (*entity.AuditLog, error) { return nil, nil }

func TestAuditServiceReportsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	audit := NewAuditService(log, failingAuditRepo{})

	err := audit.LogCreate(context.Background(), nil, entity.AuditActionStaffCreate, "staff", "s-1", nil)
	assert.Error(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "disk full")
}
