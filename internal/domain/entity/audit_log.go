package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one entry of the state-change trail. It is written in the same
// transaction as the change it describes.
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityName string     `gorm:"type:varchar(50);not null;index:idx_audit_entity,priority:1" json:"entity_name"`
	EntityID   string     `gorm:"type:varchar(64);not null;index:idx_audit_entity,priority:2" json:"entity_id"`
	Metadata   JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionShiftCreate        = "shift.create"
	AuditActionShiftDelete        = "shift.delete"
	AuditActionShiftStatus        = "shift.status"
	AuditActionSlotsGenerate      = "slots.generate"
	AuditActionAppointmentBook    = "appointment.book"
	AuditActionAppointmentStatus  = "appointment.status"
	AuditActionAppointmentNoShow  = "appointment.noshow"
	AuditActionReceptionCheckIn   = "reception.check_in"
	AuditActionReceptionStart     = "reception.start_examination"
	AuditActionReceptionComplete  = "reception.complete"
	AuditActionReceptionCancel    = "reception.cancel"
	AuditActionRecordUpdate       = "record.update"
	AuditActionRecordLines        = "record.lines"
	AuditActionInvoiceMaterialize = "invoice.materialize"
	AuditActionInvoiceSettle      = "invoice.settle"
	AuditActionInvoiceRefund      = "invoice.refund"
	AuditActionInvoiceFee         = "invoice.examination_fee"
	AuditActionCatalogCreate      = "catalog.create"
	AuditActionCatalogUpdate      = "catalog.update"
	AuditActionCatalogDelete      = "catalog.delete"
	AuditActionStaffCreate        = "staff.create"
	AuditActionPatientCreate      = "patient.create"
)
