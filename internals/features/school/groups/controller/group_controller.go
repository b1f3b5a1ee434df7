// file: internals/features/school/groups/controller/group_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "izinku_backend/internals/features/school/groups/model"
	studentModel "izinku_backend/internals/features/school/students/model"
	helper "izinku_backend/internals/helpers"
)

type GroupController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db, Validate: validator.New()}
}

type createGroupRequest struct {
	StudentGroupName string `json:"student_group_name" validate:"required,max=120"`
}

/* ===============================
   CREATE (admin — own school)
   POST /api/a/groups
   =============================== */
func (ctl *GroupController) Create(c *fiber.Ctx) error {
	schoolID := helper.GetSchoolIDFromToken(c)
	if schoolID == nil {
		return helper.JsonError(c, fiber.StatusForbidden, "no school scope")
	}

	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	group := model.StudentGroupModel{
		StudentGroupSchoolID: *schoolID,
		StudentGroupName:     strings.TrimSpace(req.StudentGroupName),
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&group).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create group")
	}
	return helper.JsonCreated(c, "group created", group)
}

type groupListRow struct {
	StudentGroupID   uuid.UUID `gorm:"column:student_group_id" json:"student_group_id"`
	StudentGroupName string    `gorm:"column:student_group_name" json:"student_group_name"`
	MemberCount      int64     `gorm:"column:member_count" json:"member_count"`
}

/* ===============================
   LIST with member counts (admin — own school)
   GET /api/a/groups
   =============================== */
func (ctl *GroupController) List(c *fiber.Ctx) error {
	schoolID := helper.GetSchoolIDFromToken(c)
	if schoolID == nil {
		return helper.JsonError(c, fiber.StatusForbidden, "no school scope")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	base := ctl.DB.WithContext(c.Context()).Table("student_groups g").
		Where("g.student_group_school_id = ? AND g.student_group_deleted_at IS NULL", *schoolID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count groups")
	}

	var rows []groupListRow
	if err := base.
		Select(`g.student_group_id, g.student_group_name, COUNT(m.student_group_member_id) AS member_count`).
		Joins("LEFT JOIN student_group_members m ON m.student_group_member_group_id = g.student_group_id").
		Group("g.student_group_id, g.student_group_name").
		Order("g.student_group_name").
		Limit(paging.Limit).Offset(paging.Offset).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list groups")
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "groups", rows, &p)
}

type addMemberRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

/* ===============================
   ADD MEMBER (admin)
   POST /api/a/groups/:group_id/members
   =============================== */
func (ctl *GroupController) AddMember(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid group_id")
	}
	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	schoolID := helper.GetSchoolIDFromToken(c)

	var member model.StudentGroupMemberModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var group model.StudentGroupModel
		if err := tx.Where("student_group_id = ?", groupID).Take(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "group not found")
			}
			return err
		}
		if schoolID != nil && group.StudentGroupSchoolID != *schoolID {
			return fiber.NewError(fiber.StatusForbidden, "group belongs to another school")
		}

		// Member must be a student of the same school.
		var student studentModel.StudentModel
		if err := tx.Where("student_id = ?", req.StudentID).Take(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "student not found")
			}
			return err
		}
		if student.StudentSchoolID == nil || *student.StudentSchoolID != group.StudentGroupSchoolID {
			return fiber.NewError(fiber.StatusBadRequest, "student belongs to another school")
		}

		member = model.StudentGroupMemberModel{
			StudentGroupMemberGroupID:   groupID,
			StudentGroupMemberStudentID: req.StudentID,
		}
		if err := tx.Create(&member).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "23505") {
				return fiber.NewError(fiber.StatusConflict, "student is already in this group")
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
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to add member")
	}
	return helper.JsonCreated(c, "member added", member)
}

/* ===============================
   REMOVE MEMBER (admin)
   DELETE /api/a/groups/:group_id/members/:student_id
   =============================== */
func (ctl *GroupController) RemoveMember(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid group_id")
	}
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
	}
	res := ctl.DB.WithContext(c.Context()).
		Where("student_group_member_group_id = ? AND student_group_member_student_id = ?", groupID, studentID).
		Delete(&model.StudentGroupMemberModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to remove member")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "membership not found")
	}
	return helper.JsonDeleted(c, "member removed", fiber.Map{
		"group_id":   groupID,
		"student_id": studentID,
	})
}
