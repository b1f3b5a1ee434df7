// file: internals/route/details/admin_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	auditController "izinku_backend/internals/features/audit/controller"
	auditService "izinku_backend/internals/features/audit/service"
	groupController "izinku_backend/internals/features/school/groups/controller"
	studentController "izinku_backend/internals/features/school/students/controller"
	inviteController "izinku_backend/internals/features/users/invites/controller"
	userController "izinku_backend/internals/features/users/users/controller"
	"izinku_backend/internals/helpers/mailer"
	authMw "izinku_backend/internals/middlewares/auth"
)

// AdminRoutes wires school administration under /api/a: students, groups,
// user management, staff invites and the audit trail.
func AdminRoutes(admin fiber.Router, db *gorm.DB, audit auditService.Recorder, m mailer.Mailer) {
	studentCtl := studentController.NewStudentController(db)
	groupCtl := groupController.NewGroupController(db)
	userCtl := userController.NewUserAdminController(db, audit)
	inviteCtl := inviteController.NewInviteController(db, audit, m)
	auditCtl := auditController.NewAuditLogController(db)

	students := admin.Group("/students", authMw.RequireOperation(constants.OpStudentManage))
	students.Post("/", studentCtl.Create)
	students.Get("/", studentCtl.List)
	students.Post("/:student_id/parents", studentCtl.LinkParent)
	students.Delete("/:student_id/parents/:parent_id", studentCtl.UnlinkParent)

	groups := admin.Group("/groups", authMw.RequireOperation(constants.OpGroupManage))
	groups.Post("/", groupCtl.Create)
	groups.Get("/", groupCtl.List)
	groups.Post("/:group_id/members", groupCtl.AddMember)
	groups.Delete("/:group_id/members/:student_id", groupCtl.RemoveMember)

	users := admin.Group("/users", authMw.RequireOperation(constants.OpUserManage))
	users.Get("/", userCtl.List)
	users.Patch("/:user_id", userCtl.Update)

	admin.Post("/invites", authMw.RequireOperation(constants.OpInviteCreate), inviteCtl.Create)

	admin.Get("/audit-logs", authMw.RequireOperation(constants.OpAuditView), auditCtl.List)
}
