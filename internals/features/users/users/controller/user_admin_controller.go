// file: internals/features/users/users/controller/user_admin_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	auditService "izinku_backend/internals/features/audit/service"
	userModel "izinku_backend/internals/features/users/users/model"
	helper "izinku_backend/internals/helpers"
)

type UserAdminController struct {
	DB       *gorm.DB
	Audit    auditService.Recorder
	Validate *validator.Validate
}

func NewUserAdminController(db *gorm.DB, audit auditService.Recorder) *UserAdminController {
	return &UserAdminController{DB: db, Audit: audit, Validate: validator.New()}
}

/* ===============================
   LIST (admin — own school; super admin — all)
   GET /api/a/users
   =============================== */
func (ctl *UserAdminController) List(c *fiber.Ctx) error {
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&userModel.UserModel{})
	if role != constants.RoleSuperAdmin {
		schoolID := helper.GetSchoolIDFromToken(c)
		if schoolID == nil {
			return helper.JsonError(c, fiber.StatusForbidden, "no school scope")
		}
		q = q.Where("user_school_id = ?", *schoolID)
	}
	if r := c.Query("role"); r != "" {
		q = q.Where("user_role = ?", r)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count users")
	}
	var rows []userModel.UserModel
	if err := q.Order("user_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list users")
	}
	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "users", rows, &p)
}

type updateUserRequest struct {
	UserRole     *string    `json:"user_role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN TEACHER REVIEWER PARENT"`
	UserSchoolID *uuid.UUID `json:"user_school_id"`
	UserIsActive *bool      `json:"user_is_active"`
}

/* ===============================
   UPDATE role/school/active (admin)
   PATCH /api/a/users/:user_id
   =============================== */
func (ctl *UserAdminController) Update(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	actorRole, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}
	targetID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid user_id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	// Only a super admin may grant super admin or move users across schools.
	if actorRole != constants.RoleSuperAdmin {
		if req.UserRole != nil && *req.UserRole == constants.RoleSuperAdmin {
			return helper.JsonError(c, fiber.StatusForbidden, "only a super admin may grant this role")
		}
		if req.UserSchoolID != nil {
			return helper.JsonError(c, fiber.StatusForbidden, "only a super admin may move users across schools")
		}
	}

	var target userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ?", targetID).
		Take(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "user not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	// Tenant guard: an admin only touches users of their own school.
	if actorRole != constants.RoleSuperAdmin {
		schoolID := helper.GetSchoolIDFromToken(c)
		if schoolID == nil || target.UserSchoolID == nil || *target.UserSchoolID != *schoolID {
			return helper.JsonError(c, fiber.StatusForbidden, "user belongs to another school")
		}
	}

	updates := map[string]any{}
	if req.UserRole != nil {
		updates["user_role"] = *req.UserRole
	}
	if req.UserSchoolID != nil {
		updates["user_school_id"] = *req.UserSchoolID
	}
	if req.UserIsActive != nil {
		updates["user_is_active"] = *req.UserIsActive
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "nothing to update", target)
	}
	if err := ctl.DB.WithContext(c.Context()).Model(&userModel.UserModel{}).
		Where("user_id = ?", targetID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionUserRoleChange,
		ActorID:      &actorID,
		ResourceType: "user",
		ResourceID:   &targetID,
		Metadata:     map[string]any{"updates": updates},
		IPAddress:    c.IP(),
	})
	return helper.JsonUpdated(c, "user updated", fiber.Map{"user_id": targetID})
}
