// file: internals/route/details/owner_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	schoolController "izinku_backend/internals/features/school/schools/controller"
	authMw "izinku_backend/internals/middlewares/auth"
)

// OwnerRoutes wires platform-level school management under /api/o.
func OwnerRoutes(owner fiber.Router, db *gorm.DB) {
	schoolCtl := schoolController.NewSchoolController(db)

	schools := owner.Group("/schools", authMw.RequireOperation(constants.OpSchoolManage))
	schools.Post("/", schoolCtl.Create)
	schools.Get("/", schoolCtl.List)
	schools.Patch("/:school_id", schoolCtl.Update)
}
