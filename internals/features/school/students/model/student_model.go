// file: internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	// PK
	StudentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_id" json:"student_id"`

	// Tenant (nullable: a student not yet assigned to a school)
	StudentSchoolID *uuid.UUID `gorm:"type:uuid;index;column:student_school_id" json:"student_school_id,omitempty"`

	StudentFullName  string  `gorm:"type:varchar(160);not null;column:student_full_name" json:"student_full_name"`
	StudentClassName *string `gorm:"type:varchar(80);column:student_class_name" json:"student_class_name,omitempty"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentModel) TableName() string { return "students" }
