// file: internals/features/forms/distribution/controller/distribution_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	distService "izinku_backend/internals/features/forms/distribution/service"
	formModel "izinku_backend/internals/features/forms/forms/model"
	formService "izinku_backend/internals/features/forms/forms/service"
	helper "izinku_backend/internals/helpers"
)

type DistributionController struct {
	DB     *gorm.DB
	Engine *distService.Engine
}

func NewDistributionController(db *gorm.DB, engine *distService.Engine) *DistributionController {
	return &DistributionController{DB: db, Engine: engine}
}

type distributeRequest struct {
	GroupIDs []uuid.UUID `json:"group_ids"`
}

/* ===============================
   DISTRIBUTE (owner/share/admin)
   POST /api/t/forms/:form_id/distribute
   =============================== */
func (ctl *DistributionController) Distribute(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Params("form_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}

	var req distributeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
		}
	}

	// Ownership check happens before the engine runs; the engine itself
	// re-reads the form inside its transaction.
	var form formModel.FormModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("form_id = ?", formID).
		Take(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "form not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load form")
	}
	if !formService.CanMutateForm(&form, userID, role, ctl.hasEditShare(c, formID, userID)) {
		return helper.JsonError(c, fiber.StatusForbidden, "you may not distribute this form")
	}

	result, err := ctl.Engine.Distribute(c.Context(), formID, req.GroupIDs, userID, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, distService.ErrFormNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "form not found")
		case errors.Is(err, distService.ErrFormClosed):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "FORM_CLOSED", "closed forms cannot be distributed")
		case errors.Is(err, distService.ErrReviewNotApproved):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "REVIEW_NOT_APPROVED", "form must be approved before distribution")
		case errors.Is(err, distService.ErrNoStudentsInSchool):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "NO_STUDENTS_IN_SCHOOL", "this school has no students yet; add students first")
		case errors.Is(err, distService.ErrNoStudentsWithParents):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "NO_STUDENTS_WITH_PARENTS", "no targeted student has a linked parent; link parent accounts first")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "distribution failed")
		}
	}
	return helper.JsonOK(c, "form distributed", result)
}

func (ctl *DistributionController) hasEditShare(c *fiber.Ctx, formID, userID uuid.UUID) bool {
	var n int64
	_ = ctl.DB.WithContext(c.Context()).Table("form_shares").
		Where("form_share_form_id = ? AND form_share_user_id = ? AND form_share_can_edit = TRUE", formID, userID).
		Count(&n).Error
	return n > 0
}
