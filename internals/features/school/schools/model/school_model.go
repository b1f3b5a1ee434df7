// file: internals/features/school/schools/model/school_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchoolModel is the tenant boundary. Every form, student and non-super-admin
// user belongs to at most one school.
type SchoolModel struct {
	// PK
	SchoolID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:school_id" json:"school_id"`

	SchoolName string  `gorm:"type:varchar(160);not null;column:school_name" json:"school_name"`
	SchoolSlug *string `gorm:"type:varchar(160);uniqueIndex;column:school_slug" json:"school_slug,omitempty"`

	// Policy: forms authored in this school need reviewer approval before
	// distribution.
	SchoolRequiresFormReview bool `gorm:"not null;default:false;column:school_requires_form_review" json:"school_requires_form_review"`

	SchoolCreatedAt time.Time      `gorm:"column:school_created_at;autoCreateTime" json:"school_created_at"`
	SchoolUpdatedAt time.Time      `gorm:"column:school_updated_at;autoUpdateTime" json:"school_updated_at"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"-"`
}

func (SchoolModel) TableName() string { return "schools" }
