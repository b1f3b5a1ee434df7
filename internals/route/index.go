// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izinku_backend/internals/configs"
	auditService "izinku_backend/internals/features/audit/service"
	subService "izinku_backend/internals/features/forms/submissions/service"
	"izinku_backend/internals/helpers/mailer"
	"izinku_backend/internals/helpers/pdf"
	routeDetails "izinku_backend/internals/route/details"

	authMw "izinku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// Shared infrastructure, built once and handed to the route groups.
	audit := auditService.NewDBRecorder(db)
	mail := mailer.FromEnv()
	renderer := pdf.SimpleRenderer{}
	baseURL := configs.AppBaseURL
	signing := subService.NewSigningService(subService.NewGormStore(db), audit, mail, baseURL)

	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db, audit, mail)

	// ===================== PARENT =====================
	log.Println("[INFO] Setting up PARENT group...")
	parent := app.Group("/api/u", authMw.AuthMiddleware(db))
	routeDetails.ParentRoutes(parent, db, audit, signing, renderer)

	// ===================== TEACHER & REVIEWER =====================
	log.Println("[INFO] Setting up TEACHER and REVIEWER groups...")
	teacher := app.Group("/api/t", authMw.AuthMiddleware(db))
	reviewer := app.Group("/api/r", authMw.AuthMiddleware(db))
	routeDetails.FormRoutes(teacher, reviewer, db, audit, mail, signing, renderer, baseURL)

	// ===================== ADMIN (per school) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a", authMw.AuthMiddleware(db))
	routeDetails.AdminRoutes(admin, db, audit, mail)

	// ===================== OWNER (GLOBAL) =====================
	log.Println("[INFO] Setting up OWNER group...")
	owner := app.Group("/api/o", authMw.AuthMiddleware(db))
	routeDetails.OwnerRoutes(owner, db)
}
