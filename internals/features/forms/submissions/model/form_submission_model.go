// file: internals/features/forms/submissions/model/form_submission_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Submission statuses.
const (
	SubmissionStatusPending  = "PENDING"
	SubmissionStatusSigned   = "SIGNED"
	SubmissionStatusDeclined = "DECLINED"
)

// FormSubmissionModel is one parent's binding decision for one child on one
// form. The composite unique index on (form_id, parent_id, student_id) is the
// central invariant of the whole subsystem — it backstops any race the
// transaction isolation might miss.
type FormSubmissionModel struct {
	// PK
	FormSubmissionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:form_submission_id" json:"form_submission_id"`

	// Natural key
	FormSubmissionFormID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_form_submissions_key;column:form_submission_form_id" json:"form_submission_form_id"`
	FormSubmissionParentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_form_submissions_key;column:form_submission_parent_id" json:"form_submission_parent_id"`
	FormSubmissionStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_form_submissions_key;column:form_submission_student_id" json:"form_submission_student_id"`

	// PENDING | SIGNED | DECLINED
	FormSubmissionStatus string `gorm:"type:varchar(12);not null;default:'PENDING';column:form_submission_status" json:"form_submission_status"`

	// Opaque signature payload; empty while PENDING
	FormSubmissionSignatureData string     `gorm:"type:text;not null;default:'';column:form_submission_signature_data" json:"form_submission_signature_data,omitempty"`
	FormSubmissionSignedAt      *time.Time `gorm:"column:form_submission_signed_at" json:"form_submission_signed_at,omitempty"`
	FormSubmissionIPAddress     *string    `gorm:"type:varchar(64);column:form_submission_ip_address" json:"form_submission_ip_address,omitempty"`

	FormSubmissionCreatedAt time.Time `gorm:"column:form_submission_created_at;autoCreateTime" json:"form_submission_created_at"`
	FormSubmissionUpdatedAt time.Time `gorm:"column:form_submission_updated_at;autoUpdateTime" json:"form_submission_updated_at"`

	FieldResponses []FieldResponseModel `gorm:"foreignKey:FieldResponseSubmissionID;references:FormSubmissionID" json:"field_responses,omitempty"`
}

func (FormSubmissionModel) TableName() string { return "form_submissions" }

// FieldResponseModel is the answer to one custom field for one submission.
// Rows are replaced wholesale on every re-sign, never merged.
type FieldResponseModel struct {
	// PK
	FieldResponseID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:field_response_id" json:"field_response_id"`

	FieldResponseSubmissionID uuid.UUID `gorm:"type:uuid;not null;index;column:field_response_submission_id" json:"field_response_submission_id"`
	FieldResponseFieldID      uuid.UUID `gorm:"type:uuid;not null;column:field_response_field_id" json:"field_response_field_id"`

	FieldResponseValue string `gorm:"type:text;not null;default:'';column:field_response_value" json:"field_response_value"`

	FieldResponseCreatedAt time.Time `gorm:"column:field_response_created_at;autoCreateTime" json:"field_response_created_at"`
}

func (FieldResponseModel) TableName() string { return "field_responses" }
