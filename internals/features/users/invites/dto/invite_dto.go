// file: internals/features/users/invites/dto/invite_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email,max=160"`
	Role  string `json:"role" validate:"required,oneof=ADMIN TEACHER REVIEWER PARENT"`
	// Days until expiry; default 7.
	ExpiresInDays int `json:"expires_in_days" validate:"omitempty,min=1,max=90"`
}

type AcceptInviteRequest struct {
	Token    uuid.UUID `json:"token" validate:"required"`
	Password string    `json:"password" validate:"required,min=8,max=72"`
	FullName string    `json:"full_name" validate:"required,max=160"`
}

type InviteResponse struct {
	InviteID        uuid.UUID  `json:"invite_id"`
	InviteToken     uuid.UUID  `json:"invite_token"`
	InviteEmail     string     `json:"invite_email"`
	InviteRole      string     `json:"invite_role"`
	InviteSchoolID  *uuid.UUID `json:"invite_school_id,omitempty"`
	InviteExpiresAt time.Time  `json:"invite_expires_at"`
}
