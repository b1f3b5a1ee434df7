// file: internals/features/forms/forms/model/form_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Form lifecycle statuses.
const (
	FormStatusDraft  = "DRAFT"
	FormStatusActive = "ACTIVE"
	FormStatusClosed = "CLOSED"
)

// Review statuses (form_review_status is NULL when no review is required).
const (
	ReviewStatusPending        = "PENDING_REVIEW"
	ReviewStatusApproved       = "APPROVED"
	ReviewStatusRevisionNeeded = "REVISION_NEEDED"
)

type FormModel struct {
	// PK
	FormID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:form_id" json:"form_id"`

	// Tenant (nullable: a form not bound to a school)
	FormSchoolID *uuid.UUID `gorm:"type:uuid;index;column:form_school_id" json:"form_school_id,omitempty"`

	// Owner
	FormTeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:form_teacher_id" json:"form_teacher_id"`

	FormTitle       string  `gorm:"type:varchar(200);not null;column:form_title" json:"form_title"`
	FormDescription *string `gorm:"type:text;column:form_description" json:"form_description,omitempty"`

	FormEventDate time.Time `gorm:"not null;column:form_event_date" json:"form_event_date"`
	FormDeadline  time.Time `gorm:"not null;column:form_deadline" json:"form_deadline"`

	// DRAFT | ACTIVE | CLOSED
	FormStatus string `gorm:"type:varchar(12);not null;default:'DRAFT';column:form_status" json:"form_status"`

	// Review attributes
	FormRequiresReview bool       `gorm:"not null;default:false;column:form_requires_review" json:"form_requires_review"`
	FormReviewStatus   *string    `gorm:"type:varchar(20);column:form_review_status" json:"form_review_status,omitempty"`
	FormReviewedBy     *uuid.UUID `gorm:"type:uuid;column:form_reviewed_by" json:"form_reviewed_by,omitempty"`
	FormReviewedAt     *time.Time `gorm:"column:form_reviewed_at" json:"form_reviewed_at,omitempty"`
	FormReviewComments *string    `gorm:"type:text;column:form_review_comments" json:"form_review_comments,omitempty"`

	FormCreatedAt time.Time      `gorm:"column:form_created_at;autoCreateTime" json:"form_created_at"`
	FormUpdatedAt time.Time      `gorm:"column:form_updated_at;autoUpdateTime" json:"form_updated_at"`
	FormDeletedAt gorm.DeletedAt `gorm:"column:form_deleted_at;index" json:"-"`

	// Ordered children
	FormFields    []FormFieldModel    `gorm:"foreignKey:FormFieldFormID;references:FormID" json:"form_fields,omitempty"`
	FormDocuments []FormDocumentModel `gorm:"foreignKey:FormDocumentFormID;references:FormID" json:"form_documents,omitempty"`
}

func (FormModel) TableName() string { return "forms" }

// Field types for custom questions.
const (
	FieldTypeText     = "text"
	FieldTypeCheckbox = "checkbox"
	FieldTypeSelect   = "select"
)

type FormFieldModel struct {
	// PK
	FormFieldID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:form_field_id" json:"form_field_id"`

	FormFieldFormID uuid.UUID `gorm:"type:uuid;not null;index;column:form_field_form_id" json:"form_field_form_id"`

	FormFieldLabel    string `gorm:"type:varchar(200);not null;column:form_field_label" json:"form_field_label"`
	FormFieldType     string `gorm:"type:varchar(20);not null;default:'text';column:form_field_type" json:"form_field_type"`
	FormFieldRequired bool   `gorm:"not null;default:false;column:form_field_required" json:"form_field_required"`
	FormFieldPosition int    `gorm:"not null;default:0;column:form_field_position" json:"form_field_position"`

	FormFieldCreatedAt time.Time `gorm:"column:form_field_created_at;autoCreateTime" json:"form_field_created_at"`
}

func (FormFieldModel) TableName() string { return "form_fields" }

// FormDocumentModel is attachment metadata only; bytes live elsewhere.
type FormDocumentModel struct {
	// PK
	FormDocumentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:form_document_id" json:"form_document_id"`

	FormDocumentFormID uuid.UUID `gorm:"type:uuid;not null;index;column:form_document_form_id" json:"form_document_form_id"`

	FormDocumentFileName string `gorm:"type:varchar(200);not null;column:form_document_file_name" json:"form_document_file_name"`
	FormDocumentURL      string `gorm:"type:text;not null;column:form_document_url" json:"form_document_url"`
	FormDocumentPosition int    `gorm:"not null;default:0;column:form_document_position" json:"form_document_position"`

	FormDocumentCreatedAt time.Time `gorm:"column:form_document_created_at;autoCreateTime" json:"form_document_created_at"`
}

func (FormDocumentModel) TableName() string { return "form_documents" }

// FormShareModel grants another user access to a form; can_edit shares pass
// the ownership check for mutations.
type FormShareModel struct {
	// PK
	FormShareID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:form_share_id" json:"form_share_id"`

	FormShareFormID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_form_shares_pair;column:form_share_form_id" json:"form_share_form_id"`
	FormShareUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_form_shares_pair;column:form_share_user_id" json:"form_share_user_id"`

	FormShareCanEdit bool `gorm:"not null;default:false;column:form_share_can_edit" json:"form_share_can_edit"`

	FormShareCreatedAt time.Time `gorm:"column:form_share_created_at;autoCreateTime" json:"form_share_created_at"`
}

func (FormShareModel) TableName() string { return "form_shares" }
