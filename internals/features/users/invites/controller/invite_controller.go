// file: internals/features/users/invites/controller/invite_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"izinku_backend/internals/configs"
	auditService "izinku_backend/internals/features/audit/service"
	dto "izinku_backend/internals/features/users/invites/dto"
	inviteModel "izinku_backend/internals/features/users/invites/model"
	userModel "izinku_backend/internals/features/users/users/model"
	helper "izinku_backend/internals/helpers"
	"izinku_backend/internals/helpers/mailer"
)

type InviteController struct {
	DB       *gorm.DB
	Audit    auditService.Recorder
	Mailer   mailer.Mailer
	Validate *validator.Validate
}

func NewInviteController(db *gorm.DB, audit auditService.Recorder, m mailer.Mailer) *InviteController {
	return &InviteController{DB: db, Audit: audit, Mailer: m, Validate: validator.New()}
}

/* ===============================
   CREATE (admin — invite into own school)
   POST /api/a/invites
   =============================== */
func (ctl *InviteController) Create(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	schoolID := helper.GetSchoolIDFromToken(c)

	var req dto.CreateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	days := req.ExpiresInDays
	if days == 0 {
		days = 7
	}

	invite := inviteModel.InviteModel{
		InviteToken:     uuid.New(),
		InviteEmail:     strings.ToLower(strings.TrimSpace(req.Email)),
		InviteRole:      req.Role,
		InviteSchoolID:  schoolID,
		InviteExpiresAt: time.Now().Add(time.Duration(days) * 24 * time.Hour),
		InviteCreatedBy: adminID,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&invite).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create invite")
	}

	inviteID := invite.InviteID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionInviteCreate,
		ActorID:      &adminID,
		ResourceType: "invite",
		ResourceID:   &inviteID,
		Metadata:     map[string]any{"email": invite.InviteEmail, "role": invite.InviteRole},
		IPAddress:    c.IP(),
	})

	// Best-effort invite mail.
	if ctl.Mailer != nil {
		link := fmt.Sprintf("%s/accept-invite?token=%s", configs.AppBaseURL, invite.InviteToken)
		go func(to, link string) {
			bg, cancel := contextWithMailTimeout()
			defer cancel()
			if err := ctl.Mailer.Send(bg, to, "You have been invited",
				fmt.Sprintf("<p>You have been invited to join. <a href=%q>Accept the invite</a></p>", link)); err != nil {
				log.Printf("[INVITE][WARN] mail failed to=%s err=%v", to, err)
			}
		}(invite.InviteEmail, link)
	}

	return helper.JsonCreated(c, "invite created", dto.InviteResponse{
		InviteID:        invite.InviteID,
		InviteToken:     invite.InviteToken,
		InviteEmail:     invite.InviteEmail,
		InviteRole:      invite.InviteRole,
		InviteSchoolID:  invite.InviteSchoolID,
		InviteExpiresAt: invite.InviteExpiresAt,
	})
}

/* ===============================
   ACCEPT (public, single use)
   POST /api/auth/invites/accept
   =============================== */
func (ctl *InviteController) Accept(c *fiber.Ctx) error {
	var req dto.AcceptInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	var created userModel.UserModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var invite inviteModel.InviteModel
		if err := tx.Where("invite_token = ?", req.Token).Take(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "invite not found")
			}
			return err
		}
		if invite.InviteUsedAt != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invite has already been used")
		}
		if time.Now().After(invite.InviteExpiresAt) {
			return fiber.NewError(fiber.StatusBadRequest, "invite has expired")
		}

		// Guarded UPDATE: the WHERE on invite_used_at makes consumption
		// exactly-once even under concurrent acceptance.
		res := tx.Model(&inviteModel.InviteModel{}).
			Where("invite_id = ? AND invite_used_at IS NULL", invite.InviteID).
			Update("invite_used_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invite has already been used")
		}

		created = userModel.UserModel{
			UserSchoolID:     invite.InviteSchoolID,
			UserEmail:        invite.InviteEmail,
			UserPasswordHash: string(hash),
			UserFullName:     strings.TrimSpace(req.FullName),
			UserRole:         invite.InviteRole,
			UserIsActive:     true,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to accept invite")
	}

	userID := created.UserID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionInviteAccept,
		ActorID:      &userID,
		ResourceType: "user",
		ResourceID:   &userID,
		Metadata:     map[string]any{"role": created.UserRole},
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return helper.JsonCreated(c, "invite accepted", fiber.Map{
		"user_id":   created.UserID,
		"user_role": created.UserRole,
	})
}
