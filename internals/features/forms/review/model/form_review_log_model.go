// file: internals/features/forms/review/model/form_review_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Reviewer actions.
const (
	ReviewActionApproved       = "APPROVED"
	ReviewActionRevisionNeeded = "REVISION_NEEDED"
	ReviewActionEdited         = "EDITED"
)

// FormReviewLogModel is append-only history of reviewer actions on a form.
type FormReviewLogModel struct {
	// PK
	FormReviewLogID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:form_review_log_id" json:"form_review_log_id"`

	FormReviewLogFormID     uuid.UUID `gorm:"type:uuid;not null;index;column:form_review_log_form_id" json:"form_review_log_form_id"`
	FormReviewLogReviewerID uuid.UUID `gorm:"type:uuid;not null;column:form_review_log_reviewer_id" json:"form_review_log_reviewer_id"`

	// APPROVED | REVISION_NEEDED | EDITED
	FormReviewLogAction   string  `gorm:"type:varchar(20);not null;column:form_review_log_action" json:"form_review_log_action"`
	FormReviewLogComments *string `gorm:"type:text;column:form_review_log_comments" json:"form_review_log_comments,omitempty"`

	FormReviewLogCreatedAt time.Time `gorm:"column:form_review_log_created_at;autoCreateTime" json:"form_review_log_created_at"`
}

func (FormReviewLogModel) TableName() string { return "form_review_logs" }
