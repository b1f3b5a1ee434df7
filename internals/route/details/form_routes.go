// file: internals/route/details/form_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izinku_backend/internals/constants"
	auditService "izinku_backend/internals/features/audit/service"
	distService "izinku_backend/internals/features/forms/distribution/service"
	subService "izinku_backend/internals/features/forms/submissions/service"
	"izinku_backend/internals/helpers/mailer"
	"izinku_backend/internals/helpers/pdf"
	authMw "izinku_backend/internals/middlewares/auth"

	distController "izinku_backend/internals/features/forms/distribution/controller"
	formController "izinku_backend/internals/features/forms/forms/controller"
	reviewController "izinku_backend/internals/features/forms/review/controller"
	subController "izinku_backend/internals/features/forms/submissions/controller"
)

// FormRoutes wires the teacher-facing form lifecycle under /api/t and the
// reviewer workflow under /api/r.
func FormRoutes(teacher, reviewer fiber.Router, db *gorm.DB, audit auditService.Recorder, m mailer.Mailer, signing *subService.SigningService, renderer pdf.Renderer, baseURL string) {
	formCtl := formController.NewFormController(db, audit)
	reviewCtl := reviewController.NewReviewController(db, audit)
	distCtl := distController.NewDistributionController(db,
		distService.NewEngine(distService.NewGormStore(db), audit, m, baseURL))
	subCtl := subController.NewSubmissionController(db, signing, renderer, audit)

	// ===== /api/t — form authoring & lifecycle =====
	forms := teacher.Group("/forms")
	forms.Post("/", authMw.RequireOperation(constants.OpFormCreate), formCtl.Create)
	forms.Get("/", formCtl.List)
	forms.Get("/:form_id", formCtl.GetByID)
	forms.Patch("/:form_id", authMw.RequireOperation(constants.OpFormUpdate), formCtl.Update)
	forms.Post("/:form_id/close", authMw.RequireOperation(constants.OpFormClose), formCtl.Close)
	forms.Post("/:form_id/reopen", authMw.RequireOperation(constants.OpFormReopen), formCtl.Reopen)
	forms.Post("/:form_id/distribute", authMw.RequireOperation(constants.OpFormDistribute), distCtl.Distribute)
	forms.Post("/:form_id/submit-review", reviewCtl.SubmitForReview)
	forms.Get("/:form_id/review-logs", reviewCtl.Logs)
	forms.Get("/:form_id/submissions", authMw.RequireOperation(constants.OpSubmissionView), subCtl.ListForForm)
	forms.Get("/:form_id/submissions/:submission_id/pdf", authMw.RequireOperation(constants.OpSubmissionView), subCtl.DownloadPDF)

	// ===== /api/r — review workflow =====
	rforms := reviewer.Group("/forms", authMw.RequireOperation(constants.OpFormReview))
	rforms.Post("/:form_id/approve", reviewCtl.Approve)
	rforms.Post("/:form_id/request-revision", reviewCtl.RequestRevision)
	rforms.Get("/:form_id/review-logs", reviewCtl.Logs)
}
