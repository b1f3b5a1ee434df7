// file: internals/features/audit/service/recorder.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditModel "izinku_backend/internals/features/audit/model"
	helper "izinku_backend/internals/helpers"
)

// Audit actions.
const (
	ActionFormCreate       = "FORM_CREATE"
	ActionFormClose        = "FORM_CLOSE"
	ActionFormReopen       = "FORM_REOPEN"
	ActionFormDistribute   = "FORM_DISTRIBUTE"
	ActionReviewApprove    = "FORM_REVIEW_APPROVE"
	ActionReviewRevision   = "FORM_REVIEW_REVISION"
	ActionReviewSubmit     = "FORM_REVIEW_SUBMIT"
	ActionSignatureSubmit  = "SIGNATURE_SUBMIT"
	ActionSignatureDecline = "SIGNATURE_DECLINE"
	ActionInviteCreate     = "INVITE_CREATE"
	ActionInviteAccept     = "INVITE_ACCEPT"
	ActionUserLogin        = "USER_LOGIN"
	ActionUserRegister     = "USER_REGISTER"
	ActionUserRoleChange   = "USER_ROLE_CHANGE"
	ActionPDFDownload      = "SIGNED_PDF_DOWNLOAD"
)

type Entry struct {
	Action       string
	ActorID      *uuid.UUID
	ResourceType string
	ResourceID   *uuid.UUID
	Metadata     map[string]any
	IPAddress    string
	UserAgent    string
}

// Recorder is what the other features depend on; tests swap in a fake.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// DBRecorder persists entries. Record never propagates failure: a broken
// audit write must not abort the caller's primary operation.
type DBRecorder struct {
	DB *gorm.DB
}

func NewDBRecorder(db *gorm.DB) *DBRecorder {
	return &DBRecorder{DB: db}
}

func (r *DBRecorder) Record(ctx context.Context, e Entry) {
	row := auditModel.AuditLogModel{
		AuditLogActorID: e.ActorID,
		AuditLogAction:  e.Action,
	}
	if e.ResourceType != "" {
		rt := e.ResourceType
		row.AuditLogResourceType = &rt
	}
	row.AuditLogResourceID = e.ResourceID
	if masked := helper.MaskIP(e.IPAddress); masked != "" {
		row.AuditLogIPAddress = &masked
	}
	if e.UserAgent != "" {
		ua := e.UserAgent
		row.AuditLogUserAgent = &ua
	}
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			row.AuditLogMetadata = datatypes.JSON(raw)
		} else {
			log.Printf("[AUDIT][WARN] metadata marshal failed action=%s err=%v", e.Action, err)
		}
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("[AUDIT][ERROR] write failed action=%s err=%v", e.Action, err)
	}
}
