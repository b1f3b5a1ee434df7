// file: internals/features/forms/forms/controller/form_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "izinku_backend/internals/features/audit/service"
	dto "izinku_backend/internals/features/forms/forms/dto"
	model "izinku_backend/internals/features/forms/forms/model"
	formService "izinku_backend/internals/features/forms/forms/service"
	reviewModel "izinku_backend/internals/features/forms/review/model"
	helper "izinku_backend/internals/helpers"
)

type FormController struct {
	DB       *gorm.DB
	Audit    auditService.Recorder
	Validate *validator.Validate
}

func NewFormController(db *gorm.DB, audit auditService.Recorder) *FormController {
	return &FormController{DB: db, Audit: audit, Validate: validator.New()}
}

/* ===============================
   CREATE (teacher/admin)
   POST /api/t/forms
   =============================== */
func (ctl *FormController) Create(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	schoolID := helper.GetSchoolIDFromToken(c)

	var req dto.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.FormDeadline.After(req.FormEventDate) {
		return helper.JsonError(c, fiber.StatusBadRequest, "deadline must not be after the event date")
	}

	// School policy decides whether this form needs review before distribution.
	requiresReview := false
	if schoolID != nil {
		if err := ctl.DB.WithContext(c.Context()).Table("schools").
			Select("school_requires_form_review").
			Where("school_id = ? AND school_deleted_at IS NULL", *schoolID).
			Take(&requiresReview).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to read school policy")
		}
	}

	form := req.ToModel(teacherID, schoolID, requiresReview)
	if err := ctl.DB.WithContext(c.Context()).Create(form).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create form")
	}

	formID := form.FormID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionFormCreate,
		ActorID:      &teacherID,
		ResourceType: "form",
		ResourceID:   &formID,
		Metadata:     map[string]any{"title": form.FormTitle},
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return helper.JsonCreated(c, "form created", dto.FromModel(form))
}

/* ===============================
   GET / LIST
   =============================== */
func (ctl *FormController) GetByID(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}

	form, err := ctl.loadForm(c, c.Params("form_id"), true)
	if err != nil {
		return err
	}
	if !formService.CanMutateForm(form, userID, role, ctl.hasShare(c, form.FormID, userID, false)) {
		return helper.JsonError(c, fiber.StatusForbidden, "you do not have access to this form")
	}
	return helper.JsonOK(c, "form", dto.FromModel(form))
}

func (ctl *FormController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.FormModel{}).
		Where("form_teacher_id = ? OR form_id IN (SELECT form_share_form_id FROM form_shares WHERE form_share_user_id = ?)",
			userID, userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("form_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count forms")
	}
	var rows []model.FormModel
	if err := q.Order("form_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list forms")
	}

	out := make([]*dto.FormResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "forms", out, &p)
}

/* ===============================
   UPDATE (owner/share/admin; DRAFT or revision)
   PATCH /api/t/forms/:form_id
   =============================== */
func (ctl *FormController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}

	var req dto.UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	form, err := ctl.loadForm(c, c.Params("form_id"), false)
	if err != nil {
		return err
	}
	if !formService.CanMutateForm(form, userID, role, ctl.hasShare(c, form.FormID, userID, true)) {
		return helper.JsonError(c, fiber.StatusForbidden, "you may not edit this form")
	}
	if form.FormStatus != model.FormStatusDraft {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "FORM_NOT_DRAFT", "only draft forms can be edited")
	}

	// All failure branches return real errors so a partial replace
	// (fields deleted, recreate failed) rolls back instead of committing.
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		req.Apply(form)

		// Editing a form that was already approved or is pending review
		// sends it back to PENDING_REVIEW and leaves a trace.
		if form.FormRequiresReview && form.FormReviewStatus != nil {
			pending := model.ReviewStatusPending
			form.FormReviewStatus = &pending
			logRow := reviewModel.FormReviewLogModel{
				FormReviewLogFormID:     form.FormID,
				FormReviewLogReviewerID: userID,
				FormReviewLogAction:     reviewModel.ReviewActionEdited,
			}
			if err := tx.Create(&logRow).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to log edit")
			}
		}

		if err := tx.Save(form).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update form")
		}

		if req.FormFields != nil {
			if err := tx.Where("form_field_form_id = ?", form.FormID).
				Delete(&model.FormFieldModel{}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to replace fields")
			}
			fields := make([]model.FormFieldModel, 0, len(*req.FormFields))
			for i := range *req.FormFields {
				(*req.FormFields)[i].Normalize()
				fields = append(fields, model.FormFieldModel{
					FormFieldFormID:   form.FormID,
					FormFieldLabel:    (*req.FormFields)[i].FormFieldLabel,
					FormFieldType:     (*req.FormFields)[i].FormFieldType,
					FormFieldRequired: (*req.FormFields)[i].FormFieldRequired,
					FormFieldPosition: i,
				})
			}
			if len(fields) > 0 {
				if err := tx.Create(&fields).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "failed to replace fields")
				}
			}
			form.FormFields = fields
		}

		if req.FormDocuments != nil {
			if err := tx.Where("form_document_form_id = ?", form.FormID).
				Delete(&model.FormDocumentModel{}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to replace documents")
			}
			docs := make([]model.FormDocumentModel, 0, len(*req.FormDocuments))
			for i, d := range *req.FormDocuments {
				docs = append(docs, model.FormDocumentModel{
					FormDocumentFormID:   form.FormID,
					FormDocumentFileName: d.FormDocumentFileName,
					FormDocumentURL:      d.FormDocumentURL,
					FormDocumentPosition: i,
				})
			}
			if len(docs) > 0 {
				if err := tx.Create(&docs).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "failed to replace documents")
				}
			}
			form.FormDocuments = docs
		}

		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update form")
	}

	return helper.JsonUpdated(c, "form updated", dto.FromModel(form))
}

/* ===============================
   CLOSE / REOPEN
   POST /api/t/forms/:form_id/close
   POST /api/t/forms/:form_id/reopen
   =============================== */
func (ctl *FormController) Close(c *fiber.Ctx) error {
	return ctl.transition(c, model.FormStatusClosed, auditService.ActionFormClose)
}

func (ctl *FormController) Reopen(c *fiber.Ctx) error {
	return ctl.transition(c, model.FormStatusActive, auditService.ActionFormReopen)
}

func (ctl *FormController) transition(c *fiber.Ctx, to string, action string) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}

	form, err := ctl.loadForm(c, c.Params("form_id"), false)
	if err != nil {
		return err
	}
	if !formService.CanMutateForm(form, userID, role, ctl.hasShare(c, form.FormID, userID, true)) {
		return helper.JsonError(c, fiber.StatusForbidden, "you may not change this form")
	}

	prev := form.FormStatus
	if err := formService.ApplyTransition(form, to, time.Now()); err != nil {
		var ite *formService.IllegalTransitionError
		switch {
		case errors.Is(err, formService.ErrDeadlinePassed):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "DEADLINE_PASSED", "event date has passed, form cannot be reopened")
		case errors.As(err, &ite):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "ILLEGAL_TRANSITION", ite.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "transition failed")
		}
	}

	if err := ctl.DB.WithContext(c.Context()).Model(&model.FormModel{}).
		Where("form_id = ?", form.FormID).
		Update("form_status", form.FormStatus).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save form status")
	}

	formID := form.FormID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       action,
		ActorID:      &userID,
		ResourceType: "form",
		ResourceID:   &formID,
		Metadata:     map[string]any{"previous_status": prev, "next_status": form.FormStatus},
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return helper.JsonUpdated(c, "form status updated", dto.FromModel(form))
}

/* ===============================
   internal
   =============================== */
func (ctl *FormController) loadForm(c *fiber.Ctx, rawID string, withChildren bool) (*model.FormModel, error) {
	formID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}
	q := ctl.DB.WithContext(c.Context())
	if withChildren {
		q = q.Preload("FormFields", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_field_position")
		}).Preload("FormDocuments", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_document_position")
		})
	}
	var form model.FormModel
	if err := q.Where("form_id = ?", formID).Take(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "form not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "failed to load form")
	}
	return &form, nil
}

func (ctl *FormController) hasShare(c *fiber.Ctx, formID, userID uuid.UUID, needEdit bool) bool {
	q := ctl.DB.WithContext(c.Context()).Table("form_shares").
		Where("form_share_form_id = ? AND form_share_user_id = ?", formID, userID)
	if needEdit {
		q = q.Where("form_share_can_edit = TRUE")
	}
	var n int64
	_ = q.Count(&n).Error
	return n > 0
}
