// file: internals/features/audit/model/audit_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogModel is append-only: application code inserts and reads, never
// updates or deletes.
type AuditLogModel struct {
	// PK
	AuditLogID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:audit_log_id" json:"audit_log_id"`

	// Actor (nullable: system actions have no user)
	AuditLogActorID *uuid.UUID `gorm:"type:uuid;column:audit_log_actor_id" json:"audit_log_actor_id,omitempty"`

	// What happened
	AuditLogAction       string     `gorm:"type:varchar(80);not null;column:audit_log_action" json:"audit_log_action"`
	AuditLogResourceType *string    `gorm:"type:varchar(50);column:audit_log_resource_type" json:"audit_log_resource_type,omitempty"`
	AuditLogResourceID   *uuid.UUID `gorm:"type:uuid;column:audit_log_resource_id" json:"audit_log_resource_id,omitempty"`

	// Free-form context
	AuditLogMetadata datatypes.JSON `gorm:"type:jsonb;column:audit_log_metadata" json:"audit_log_metadata,omitempty"`

	// Request origin — IP is stored masked
	AuditLogIPAddress *string `gorm:"type:varchar(64);column:audit_log_ip_address" json:"audit_log_ip_address,omitempty"`
	AuditLogUserAgent *string `gorm:"type:text;column:audit_log_user_agent" json:"audit_log_user_agent,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"column:audit_log_created_at;autoCreateTime" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }
