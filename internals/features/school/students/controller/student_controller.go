// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	model "izinku_backend/internals/features/school/students/model"
	helper "izinku_backend/internals/helpers"
)

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validate: validator.New()}
}

type createStudentRequest struct {
	StudentFullName  string  `json:"student_full_name" validate:"required,max=160"`
	StudentClassName *string `json:"student_class_name" validate:"omitempty,max=80"`
}

/* ===============================
   CREATE (admin — own school)
   POST /api/a/students
   =============================== */
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	schoolID := helper.GetSchoolIDFromToken(c)

	var req createStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	student := model.StudentModel{
		StudentSchoolID:  schoolID,
		StudentFullName:  strings.TrimSpace(req.StudentFullName),
		StudentClassName: req.StudentClassName,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&student).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create student")
	}
	return helper.JsonCreated(c, "student created", student)
}

type studentWithParents struct {
	StudentID        uuid.UUID      `gorm:"column:student_id" json:"student_id"`
	StudentFullName  string         `gorm:"column:student_full_name" json:"student_full_name"`
	StudentClassName *string        `gorm:"column:student_class_name" json:"student_class_name,omitempty"`
	ParentNames      pq.StringArray `gorm:"column:parent_names;type:text[]" json:"parent_names"`
}

/* ===============================
   LIST with parent names (admin — own school)
   GET /api/a/students
   =============================== */
func (ctl *StudentController) List(c *fiber.Ctx) error {
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 200)

	base := ctl.DB.WithContext(c.Context()).Table("students s").
		Where("s.student_deleted_at IS NULL")
	if role != constants.RoleSuperAdmin {
		schoolID := helper.GetSchoolIDFromToken(c)
		if schoolID == nil {
			return helper.JsonError(c, fiber.StatusForbidden, "no school scope")
		}
		base = base.Where("s.student_school_id = ?", *schoolID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count students")
	}

	var rows []studentWithParents
	if err := base.
		Select(`s.student_id, s.student_full_name, s.student_class_name,
			COALESCE(array_agg(u.user_full_name) FILTER (WHERE u.user_id IS NOT NULL), '{}') AS parent_names`).
		Joins("LEFT JOIN parent_links pl ON pl.parent_link_student_id = s.student_id").
		Joins("LEFT JOIN users u ON u.user_id = pl.parent_link_parent_id AND u.user_deleted_at IS NULL").
		Group("s.student_id, s.student_full_name, s.student_class_name").
		Order("s.student_full_name").
		Limit(paging.Limit).Offset(paging.Offset).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "students", rows, &p)
}

type linkParentRequest struct {
	ParentID     uuid.UUID `json:"parent_id" validate:"required"`
	Relationship string    `json:"relationship" validate:"required,max=40"`
}

/* ===============================
   LINK PARENT (admin)
   POST /api/a/students/:student_id/parents
   =============================== */
func (ctl *StudentController) LinkParent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
	}
	var req linkParentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var link model.ParentLinkModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		// Student must exist and be in scope.
		var student model.StudentModel
		if err := tx.Where("student_id = ?", studentID).Take(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "student not found")
			}
			return err
		}
		if schoolID := helper.GetSchoolIDFromToken(c); schoolID != nil {
			if student.StudentSchoolID == nil || *student.StudentSchoolID != *schoolID {
				return fiber.NewError(fiber.StatusForbidden, "student belongs to another school")
			}
		}
		// Parent must be a PARENT user.
		var parentRole string
		if err := tx.Table("users").
			Select("user_role").
			Where("user_id = ? AND user_deleted_at IS NULL", req.ParentID).
			Take(&parentRole).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "parent user not found")
			}
			return err
		}
		if parentRole != constants.RoleParent {
			return fiber.NewError(fiber.StatusBadRequest, "user is not a parent account")
		}

		link = model.ParentLinkModel{
			ParentLinkParentID:     req.ParentID,
			ParentLinkStudentID:    studentID,
			ParentLinkRelationship: strings.TrimSpace(req.Relationship),
		}
		if err := tx.Create(&link).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "23505") {
				return fiber.NewError(fiber.StatusConflict, "this parent is already linked to the student")
			}
			return err
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to link parent")
	}
	return helper.JsonCreated(c, "parent linked", link)
}

/* ===============================
   UNLINK PARENT (admin)
   DELETE /api/a/students/:student_id/parents/:parent_id
   =============================== */
func (ctl *StudentController) UnlinkParent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
	}
	parentID, err := uuid.Parse(c.Params("parent_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid parent_id")
	}
	res := ctl.DB.WithContext(c.Context()).
		Where("parent_link_student_id = ? AND parent_link_parent_id = ?", studentID, parentID).
		Delete(&model.ParentLinkModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to unlink parent")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "link not found")
	}
	return helper.JsonDeleted(c, "parent unlinked", fiber.Map{
		"student_id": studentID,
		"parent_id":  parentID,
	})
}
