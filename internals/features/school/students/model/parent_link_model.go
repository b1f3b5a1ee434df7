// file: internals/features/school/students/model/parent_link_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ParentLinkModel connects a parent account to a student. At most one link
// per (parent, student) pair — enforced by the composite unique index.
type ParentLinkModel struct {
	// PK
	ParentLinkID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:parent_link_id" json:"parent_link_id"`

	ParentLinkParentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_links_pair;column:parent_link_parent_id" json:"parent_link_parent_id"`
	ParentLinkStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_links_pair;column:parent_link_student_id" json:"parent_link_student_id"`

	// e.g. "Mother", "Father", "Guardian"
	ParentLinkRelationship string `gorm:"type:varchar(40);not null;default:'Guardian';column:parent_link_relationship" json:"parent_link_relationship"`

	ParentLinkCreatedAt time.Time `gorm:"column:parent_link_created_at;autoCreateTime" json:"parent_link_created_at"`
}

func (ParentLinkModel) TableName() string { return "parent_links" }
