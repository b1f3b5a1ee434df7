// file: internals/features/users/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	// PK
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`

	// Tenant (nullable: SUPER_ADMIN has no school)
	UserSchoolID *uuid.UUID `gorm:"type:uuid;index;column:user_school_id" json:"user_school_id,omitempty"`

	UserEmail        string `gorm:"type:varchar(160);not null;uniqueIndex;column:user_email" json:"user_email"`
	UserPasswordHash string `gorm:"type:varchar(120);not null;column:user_password_hash" json:"-"`
	UserFullName     string `gorm:"type:varchar(160);not null;column:user_full_name" json:"user_full_name"`

	// SUPER_ADMIN | ADMIN | TEACHER | REVIEWER | PARENT
	UserRole string `gorm:"type:varchar(20);not null;index;column:user_role" json:"user_role"`

	UserIsActive bool `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }
