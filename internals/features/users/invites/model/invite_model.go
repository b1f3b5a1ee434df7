// file: internals/features/users/invites/model/invite_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// InviteModel is a single-use token granting account creation with a
// pre-assigned role and school. used_at stays NULL until consumed — the
// acceptance path flips it with a guarded UPDATE so it is consumed exactly once.
type InviteModel struct {
	// PK
	InviteID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:invite_id" json:"invite_id"`

	InviteToken uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:invite_token" json:"invite_token"`

	InviteEmail    string     `gorm:"type:varchar(160);not null;column:invite_email" json:"invite_email"`
	InviteRole     string     `gorm:"type:varchar(20);not null;column:invite_role" json:"invite_role"`
	InviteSchoolID *uuid.UUID `gorm:"type:uuid;column:invite_school_id" json:"invite_school_id,omitempty"`

	InviteExpiresAt time.Time  `gorm:"not null;column:invite_expires_at" json:"invite_expires_at"`
	InviteUsedAt    *time.Time `gorm:"column:invite_used_at" json:"invite_used_at,omitempty"`

	InviteCreatedBy uuid.UUID `gorm:"type:uuid;not null;column:invite_created_by" json:"invite_created_by"`
	InviteCreatedAt time.Time `gorm:"column:invite_created_at;autoCreateTime" json:"invite_created_at"`
}

func (InviteModel) TableName() string { return "invites" }
