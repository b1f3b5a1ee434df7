// file: internals/route/details/auth_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditService "izinku_backend/internals/features/audit/service"
	authController "izinku_backend/internals/features/users/auth/controller"
	inviteController "izinku_backend/internals/features/users/invites/controller"
	"izinku_backend/internals/helpers/mailer"
	"izinku_backend/internals/middlewares"
)

// AuthRoutes are the only unauthenticated endpoints besides the health check.
func AuthRoutes(app *fiber.App, db *gorm.DB, audit auditService.Recorder, m mailer.Mailer) {
	authCtl := authController.NewAuthController(db, audit)
	inviteCtl := inviteController.NewInviteController(db, audit, m)

	grp := app.Group("/api/auth")
	grp.Post("/register", middlewares.RegisterRateLimiter(), authCtl.Register)
	grp.Post("/login", middlewares.LoginRateLimiter(), authCtl.Login)
	grp.Post("/login/google", middlewares.LoginRateLimiter(), authCtl.GoogleLogin)
	grp.Post("/refresh", authCtl.Refresh)

	// Invite acceptance happens before the user has an account.
	grp.Post("/invites/accept", middlewares.RegisterRateLimiter(), inviteCtl.Accept)
}
