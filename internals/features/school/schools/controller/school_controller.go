// file: internals/features/school/schools/controller/school_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "izinku_backend/internals/features/school/schools/model"
	helper "izinku_backend/internals/helpers"
)

type SchoolController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewSchoolController(db *gorm.DB) *SchoolController {
	return &SchoolController{DB: db, Validate: validator.New()}
}

type createSchoolRequest struct {
	SchoolName               string `json:"school_name" validate:"required,max=160"`
	SchoolRequiresFormReview bool   `json:"school_requires_form_review"`
}

/* ===============================
   CREATE (super admin)
   POST /api/o/schools
   =============================== */
func (ctl *SchoolController) Create(c *fiber.Ctx) error {
	var req createSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	slug := helper.Slugify(req.SchoolName, 160)
	school := model.SchoolModel{
		SchoolName:               strings.TrimSpace(req.SchoolName),
		SchoolSlug:               &slug,
		SchoolRequiresFormReview: req.SchoolRequiresFormReview,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&school).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create school")
	}
	return helper.JsonCreated(c, "school created", school)
}

/* ===============================
   LIST (super admin)
   GET /api/o/schools
   =============================== */
func (ctl *SchoolController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	q := ctl.DB.WithContext(c.Context()).Model(&model.SchoolModel{})
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count schools")
	}
	var rows []model.SchoolModel
	if err := q.Order("school_name").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list schools")
	}
	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "schools", rows, &p)
}

type updateSchoolRequest struct {
	SchoolName               *string `json:"school_name" validate:"omitempty,max=160"`
	SchoolRequiresFormReview *bool   `json:"school_requires_form_review"`
}

/* ===============================
   UPDATE (super admin — incl. review policy flip)
   PATCH /api/o/schools/:school_id
   =============================== */
func (ctl *SchoolController) Update(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("school_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid school_id")
	}
	var req updateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var school model.SchoolModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("school_id = ?", schoolID).
		Take(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "school not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load school")
	}

	updates := map[string]any{}
	if req.SchoolName != nil {
		updates["school_name"] = strings.TrimSpace(*req.SchoolName)
	}
	if req.SchoolRequiresFormReview != nil {
		updates["school_requires_form_review"] = *req.SchoolRequiresFormReview
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "nothing to update", school)
	}
	if err := ctl.DB.WithContext(c.Context()).Model(&model.SchoolModel{}).
		Where("school_id = ?", schoolID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update school")
	}
	return helper.JsonUpdated(c, "school updated", fiber.Map{"school_id": schoolID})
}
