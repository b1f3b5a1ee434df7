// file: internals/features/forms/submissions/controller/submission_controller.go
package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	auditService "izinku_backend/internals/features/audit/service"
	formModel "izinku_backend/internals/features/forms/forms/model"
	dto "izinku_backend/internals/features/forms/submissions/dto"
	subModel "izinku_backend/internals/features/forms/submissions/model"
	subService "izinku_backend/internals/features/forms/submissions/service"
	helper "izinku_backend/internals/helpers"
	"izinku_backend/internals/helpers/pdf"
)

type SubmissionController struct {
	DB       *gorm.DB
	Signing  *subService.SigningService
	Renderer pdf.Renderer
	Audit    auditService.Recorder
	Validate *validator.Validate
}

func NewSubmissionController(db *gorm.DB, signing *subService.SigningService, renderer pdf.Renderer, audit auditService.Recorder) *SubmissionController {
	return &SubmissionController{
		DB:       db,
		Signing:  signing,
		Renderer: renderer,
		Audit:    audit,
		Validate: validator.New(),
	}
}

/* ===============================
   SIGN (parent)
   POST /api/u/forms/:form_id/sign
   =============================== */
func (ctl *SubmissionController) Sign(c *fiber.Ctx) error {
	parentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Params("form_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}

	var req dto.SignSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sub, err := ctl.Signing.Sign(c.Context(), subService.SignInput{
		FormID:        formID,
		ParentID:      parentID,
		StudentID:     req.StudentID,
		SignatureData: req.SignatureData,
		Answers:       req.ToAnswers(),
		IPAddress:     c.IP(),
		UserAgent:     c.Get("User-Agent"),
	})
	if err != nil {
		return ctl.mapSigningError(c, err)
	}
	return helper.JsonOK(c, "signature recorded", sub)
}

/* ===============================
   DECLINE (parent)
   POST /api/u/forms/:form_id/decline
   =============================== */
func (ctl *SubmissionController) Decline(c *fiber.Ctx) error {
	parentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Params("form_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}

	var req dto.DeclineSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	answers := make([]subService.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, subService.Answer{FieldID: a.FieldID, Value: a.Value})
	}
	sub, err := ctl.Signing.Decline(c.Context(), subService.SignInput{
		FormID:    formID,
		ParentID:  parentID,
		StudentID: req.StudentID,
		Answers:   answers,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		return ctl.mapSigningError(c, err)
	}
	return helper.JsonOK(c, "decline recorded", sub)
}

func (ctl *SubmissionController) mapSigningError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, subService.ErrFormNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "form not found")
	case errors.Is(err, subService.ErrFormNotActive):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "FORM_NOT_ACTIVE", "this form is not open for signing")
	case errors.Is(err, subService.ErrDeadlinePassed):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "DEADLINE_PASSED", "the signing deadline has passed")
	case errors.Is(err, subService.ErrStudentNotLinked):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "STUDENT_NOT_LINKED", "this student is not linked to your account")
	case errors.Is(err, subService.ErrAlreadySigned):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "ALREADY_SIGNED", "this submission has already been signed")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, "signing failed")
	}
}

/* ===============================
   PARENT FORM VIEW (per-student states)
   GET /api/u/forms/:form_id
   =============================== */
func (ctl *SubmissionController) ParentFormView(c *fiber.Ctx) error {
	parentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Params("form_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}

	var form formModel.FormModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("form_id = ?", formID).
		Take(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "form not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load form")
	}

	var rows []struct {
		StudentID    uuid.UUID  `gorm:"column:student_id"`
		StudentName  string     `gorm:"column:student_name"`
		Relationship string     `gorm:"column:relationship"`
		SubmissionID *uuid.UUID `gorm:"column:submission_id"`
		Status       *string    `gorm:"column:status"`
		SignedAt     *time.Time `gorm:"column:signed_at"`
	}
	if err := ctl.DB.WithContext(c.Context()).Table("parent_links pl").
		Select(`s.student_id AS student_id,
			s.student_full_name AS student_name,
			pl.parent_link_relationship AS relationship,
			fs.form_submission_id AS submission_id,
			fs.form_submission_status AS status,
			fs.form_submission_signed_at AS signed_at`).
		Joins("JOIN students s ON s.student_id = pl.parent_link_student_id AND s.student_deleted_at IS NULL").
		Joins(`LEFT JOIN form_submissions fs
			ON fs.form_submission_form_id = ?
			AND fs.form_submission_parent_id = pl.parent_link_parent_id
			AND fs.form_submission_student_id = s.student_id`, formID).
		Where("pl.parent_link_parent_id = ?", parentID).
		Order("s.student_full_name").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load submissions")
	}
	if len(rows) == 0 {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "STUDENT_NOT_LINKED", "no students are linked to your account")
	}

	view := dto.ParentFormView{
		FormID:       form.FormID,
		FormTitle:    form.FormTitle,
		FormStatus:   form.FormStatus,
		FormDeadline: form.FormDeadline,
		FullySigned:  true,
	}
	for _, r := range rows {
		status := subModel.SubmissionStatusPending
		if r.Status != nil {
			status = *r.Status
		}
		if status != subModel.SubmissionStatusSigned {
			view.FullySigned = false
		}
		view.Students = append(view.Students, dto.StudentSubmissionState{
			StudentID:    r.StudentID,
			StudentName:  r.StudentName,
			Relationship: r.Relationship,
			SubmissionID: r.SubmissionID,
			Status:       status,
			SignedAt:     r.SignedAt,
		})
	}
	return helper.JsonOK(c, "form view", view)
}

/* ===============================
   LIST FOR FORM (teacher/admin)
   GET /api/t/forms/:form_id/submissions
   =============================== */
func (ctl *SubmissionController) ListForForm(c *fiber.Ctx) error {
	formID, err := uuid.Parse(c.Params("form_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form_id")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	q := ctl.DB.WithContext(c.Context()).Model(&subModel.FormSubmissionModel{}).
		Where("form_submission_form_id = ?", formID)
	if status := c.Query("status"); status != "" {
		q = q.Where("form_submission_status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count submissions")
	}
	var rows []subModel.FormSubmissionModel
	if err := q.Order("form_submission_created_at").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}
	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "submissions", rows, &p)
}

/* ===============================
   SIGNED PDF DOWNLOAD
   GET /api/u/submissions/:submission_id/pdf
   =============================== */
func (ctl *SubmissionController) DownloadPDF(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}
	subID, err := uuid.Parse(c.Params("submission_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid submission_id")
	}

	var sub subModel.FormSubmissionModel
	if err := ctl.DB.WithContext(c.Context()).
		Preload("FieldResponses").
		Where("form_submission_id = ?", subID).
		Take(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load submission")
	}

	var form formModel.FormModel
	if err := ctl.DB.WithContext(c.Context()).
		Preload("FormFields").
		Where("form_id = ?", sub.FormSubmissionFormID).
		Take(&form).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load form")
	}

	// Parent on the submission, the owning teacher, or an admin.
	allowed := sub.FormSubmissionParentID == userID ||
		form.FormTeacherID == userID ||
		role == constants.RoleAdmin || role == constants.RoleSuperAdmin
	if !allowed {
		return helper.JsonError(c, fiber.StatusForbidden, "you do not have access to this submission")
	}
	if sub.FormSubmissionStatus != subModel.SubmissionStatusSigned {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "NOT_SIGNED", "submission has not been signed yet")
	}

	doc := ctl.buildDocument(c, &form, &sub)
	bytes, err := ctl.Renderer.Render(doc)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to render PDF")
	}

	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionPDFDownload,
		ActorID:      &userID,
		ResourceType: "form_submission",
		ResourceID:   &subID,
		IPAddress:    c.IP(),
	})

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="permission-slip-%s.pdf"`, subID))
	return c.Send(bytes)
}

func (ctl *SubmissionController) buildDocument(c *fiber.Ctx, form *formModel.FormModel, sub *subModel.FormSubmissionModel) pdf.SubmissionDocument {
	var studentName, parentName, relationship string
	_ = ctl.DB.WithContext(c.Context()).Table("students").
		Select("student_full_name").
		Where("student_id = ?", sub.FormSubmissionStudentID).
		Scan(&studentName).Error
	_ = ctl.DB.WithContext(c.Context()).Table("users").
		Select("user_full_name").
		Where("user_id = ?", sub.FormSubmissionParentID).
		Scan(&parentName).Error
	_ = ctl.DB.WithContext(c.Context()).Table("parent_links").
		Select("parent_link_relationship").
		Where("parent_link_parent_id = ? AND parent_link_student_id = ?",
			sub.FormSubmissionParentID, sub.FormSubmissionStudentID).
		Scan(&relationship).Error

	labels := map[uuid.UUID]string{}
	for _, f := range form.FormFields {
		labels[f.FormFieldID] = f.FormFieldLabel
	}
	doc := pdf.SubmissionDocument{
		FormTitle:    form.FormTitle,
		EventDate:    form.FormEventDate.Format("2006-01-02"),
		StudentName:  studentName,
		ParentName:   parentName,
		Relationship: relationship,
		Status:       sub.FormSubmissionStatus,
		SignatureRef: sub.FormSubmissionID.String(),
	}
	if sub.FormSubmissionSignedAt != nil {
		doc.SignedAt = sub.FormSubmissionSignedAt.Format(time.RFC3339)
	}
	for _, r := range sub.FieldResponses {
		label := labels[r.FieldResponseFieldID]
		if label == "" {
			label = r.FieldResponseFieldID.String()
		}
		doc.Answers = append(doc.Answers, pdf.AnswerLine{Label: label, Value: r.FieldResponseValue})
	}
	return doc
}
