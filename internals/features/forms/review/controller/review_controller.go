// file: internals/features/forms/review/controller/review_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "izinku_backend/internals/features/audit/service"
	formModel "izinku_backend/internals/features/forms/forms/model"
	dto "izinku_backend/internals/features/forms/review/dto"
	reviewModel "izinku_backend/internals/features/forms/review/model"
	reviewService "izinku_backend/internals/features/forms/review/service"
	helper "izinku_backend/internals/helpers"
)

type ReviewController struct {
	DB       *gorm.DB
	Audit    auditService.Recorder
	Validate *validator.Validate
}

func NewReviewController(db *gorm.DB, audit auditService.Recorder) *ReviewController {
	return &ReviewController{DB: db, Audit: audit, Validate: validator.New()}
}

/* ===============================
   SUBMIT FOR REVIEW (owner teacher)
   POST /api/t/forms/:form_id/submit-review
   =============================== */
func (ctl *ReviewController) SubmitForReview(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	form, err := ctl.loadForm(c)
	if err != nil {
		return err
	}
	if form.FormTeacherID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "only the owning teacher may submit for review")
	}
	if !form.FormRequiresReview {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "REVIEW_NOT_REQUIRED", "this form does not require review")
	}
	if form.FormStatus != formModel.FormStatusDraft {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "FORM_NOT_DRAFT", "only draft forms can be submitted for review")
	}
	if form.FormReviewStatus != nil && *form.FormReviewStatus == formModel.ReviewStatusPending {
		return helper.JsonOK(c, "form already pending review", form)
	}

	pending := formModel.ReviewStatusPending
	if err := ctl.DB.WithContext(c.Context()).Model(&formModel.FormModel{}).
		Where("form_id = ?", form.FormID).
		Update("form_review_status", pending).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to submit for review")
	}
	form.FormReviewStatus = &pending

	formID := form.FormID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionReviewSubmit,
		ActorID:      &userID,
		ResourceType: "form",
		ResourceID:   &formID,
		IPAddress:    c.IP(),
	})
	return helper.JsonUpdated(c, "form submitted for review", form)
}

/* ===============================
   APPROVE (reviewer, same school)
   POST /api/r/forms/:form_id/approve
   =============================== */
func (ctl *ReviewController) Approve(c *fiber.Ctx) error {
	var req dto.ApproveFormRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
		}
		if err := ctl.Validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	comments := ""
	if req.Comments != nil {
		comments = strings.TrimSpace(*req.Comments)
	}
	return ctl.review(c, formModel.ReviewStatusApproved, reviewModel.ReviewActionApproved,
		auditService.ActionReviewApprove, comments)
}

/* ===============================
   REQUEST REVISION (reviewer, same school, comments required)
   POST /api/r/forms/:form_id/request-revision
   =============================== */
func (ctl *ReviewController) RequestRevision(c *fiber.Ctx) error {
	var req dto.RequestRevisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := reviewService.ValidateRevisionComments(req.Comments); err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"comments": {"comments are required when requesting a revision"},
		})
	}
	return ctl.review(c, formModel.ReviewStatusRevisionNeeded, reviewModel.ReviewActionRevisionNeeded,
		auditService.ActionReviewRevision, strings.TrimSpace(req.Comments))
}

func (ctl *ReviewController) review(c *fiber.Ctx, nextStatus, logAction, auditAction, comments string) error {
	reviewerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	reviewerSchoolID := helper.GetSchoolIDFromToken(c)

	form, err := ctl.loadForm(c)
	if err != nil {
		return err
	}

	// Tenant check first: a reviewer from another school gets 403 no
	// matter what state the form is in.
	if !reviewService.SameSchool(reviewerSchoolID, form.FormSchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "reviewer does not belong to this form's school")
	}
	if err := reviewService.ValidateReviewable(form.FormReviewStatus); err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "INVALID_REVIEW_STATE", "form is not awaiting review")
	}

	now := time.Now()
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"form_review_status": nextStatus,
			"form_reviewed_by":   reviewerID,
			"form_reviewed_at":   now,
		}
		if comments != "" {
			updates["form_review_comments"] = comments
		}
		if err := tx.Model(&formModel.FormModel{}).
			Where("form_id = ?", form.FormID).
			Updates(updates).Error; err != nil {
			return err
		}
		logRow := reviewModel.FormReviewLogModel{
			FormReviewLogFormID:     form.FormID,
			FormReviewLogReviewerID: reviewerID,
			FormReviewLogAction:     logAction,
		}
		if comments != "" {
			logRow.FormReviewLogComments = &comments
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record review")
	}

	form.FormReviewStatus = &nextStatus
	form.FormReviewedBy = &reviewerID
	form.FormReviewedAt = &now
	if comments != "" {
		form.FormReviewComments = &comments
	}

	formID := form.FormID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditAction,
		ActorID:      &reviewerID,
		ResourceType: "form",
		ResourceID:   &formID,
		Metadata:     map[string]any{"review_status": nextStatus},
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return helper.JsonUpdated(c, "review recorded", form)
}

/* ===============================
   REVIEW HISTORY
   GET /api/r/forms/:form_id/review-logs
   =============================== */
func (ctl *ReviewController) Logs(c *fiber.Ctx) error {
	form, err := ctl.loadForm(c)
	if err != nil {
		return err
	}
	var rows []reviewModel.FormReviewLogModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("form_review_log_form_id = ?", form.FormID).
		Order("form_review_log_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list review logs")
	}
	return helper.JsonOK(c, "review logs", rows)
}

func (ctl *ReviewController) loadForm(c *fiber.Ctx) (*formModel.FormModel, error) {
	formID, err := uuid.Parse(c.Params("form_id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}
	var form formModel.FormModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("form_id = ?", formID).
		Take(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "form not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "failed to load form")
	}
	return &form, nil
}
