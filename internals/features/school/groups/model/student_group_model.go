// file: internals/features/school/groups/model/student_group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentGroupModel is a named cohort used to narrow form distribution
// (e.g. "Class 5B", "Choir").
type StudentGroupModel struct {
	// PK
	StudentGroupID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_group_id" json:"student_group_id"`

	// Tenant
	StudentGroupSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:student_group_school_id" json:"student_group_school_id"`

	StudentGroupName string `gorm:"type:varchar(120);not null;column:student_group_name" json:"student_group_name"`

	StudentGroupCreatedAt time.Time      `gorm:"column:student_group_created_at;autoCreateTime" json:"student_group_created_at"`
	StudentGroupUpdatedAt time.Time      `gorm:"column:student_group_updated_at;autoUpdateTime" json:"student_group_updated_at"`
	StudentGroupDeletedAt gorm.DeletedAt `gorm:"column:student_group_deleted_at;index" json:"-"`
}

func (StudentGroupModel) TableName() string { return "student_groups" }

type StudentGroupMemberModel struct {
	// PK
	StudentGroupMemberID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_group_member_id" json:"student_group_member_id"`

	StudentGroupMemberGroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_pair;column:student_group_member_group_id" json:"student_group_member_group_id"`
	StudentGroupMemberStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_pair;column:student_group_member_student_id" json:"student_group_member_student_id"`

	StudentGroupMemberCreatedAt time.Time `gorm:"column:student_group_member_created_at;autoCreateTime" json:"student_group_member_created_at"`
}

func (StudentGroupMemberModel) TableName() string { return "student_group_members" }
