// file: internals/features/audit/controller/audit_log_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "izinku_backend/internals/features/audit/model"
	helper "izinku_backend/internals/helpers"
)

type AuditLogController struct {
	DB *gorm.DB
}

func NewAuditLogController(db *gorm.DB) *AuditLogController {
	return &AuditLogController{DB: db}
}

/* ===============================
   LIST (admin)
   GET /api/a/audit-logs?action=&resource_id=&page=&per_page=
   =============================== */
func (ctl *AuditLogController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&auditModel.AuditLogModel{})
	if action := c.Query("action"); action != "" {
		q = q.Where("audit_log_action = ?", action)
	}
	if raw := c.Query("resource_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid resource_id")
		}
		q = q.Where("audit_log_resource_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count audit logs")
	}

	var rows []auditModel.AuditLogModel
	if err := q.
		Order("audit_log_created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list audit logs")
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "audit logs", rows, &p)
}
