// file: internals/route/details/parent_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	auditService "izinku_backend/internals/features/audit/service"
	subController "izinku_backend/internals/features/forms/submissions/controller"
	subService "izinku_backend/internals/features/forms/submissions/service"
	"izinku_backend/internals/helpers/pdf"
	authMw "izinku_backend/internals/middlewares/auth"
)

// ParentRoutes wires everything a signed-in parent does under /api/u.
func ParentRoutes(parent fiber.Router, db *gorm.DB, audit auditService.Recorder, signing *subService.SigningService, renderer pdf.Renderer) {
	subCtl := subController.NewSubmissionController(db, signing, renderer, audit)

	forms := parent.Group("/forms")
	forms.Get("/:form_id", subCtl.ParentFormView)
	forms.Post("/:form_id/sign", authMw.RequireOperation(constants.OpSubmissionSign), subCtl.Sign)
	forms.Post("/:form_id/decline", authMw.RequireOperation(constants.OpSubmissionSign), subCtl.Decline)
	forms.Get("/:form_id/submissions/:submission_id/pdf", subCtl.DownloadPDF)
}
