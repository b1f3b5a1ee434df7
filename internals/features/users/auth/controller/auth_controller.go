// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"izinku_backend/internals/configs"
	"izinku_backend/internals/constants"
	auditService "izinku_backend/internals/features/audit/service"
	dto "izinku_backend/internals/features/users/auth/dto"
	authService "izinku_backend/internals/features/users/auth/service"
	userModel "izinku_backend/internals/features/users/users/model"
	helper "izinku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Audit    auditService.Recorder
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB, audit auditService.Recorder) *AuthController {
	return &AuthController{DB: db, Audit: audit, Validate: validator.New()}
}

/* ===============================
   REGISTER (parent self sign-up)
   POST /api/auth/register
   =============================== */
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing int64
	if err := ctl.DB.WithContext(c.Context()).Model(&userModel.UserModel{}).
		Where("user_email = ?", email).
		Count(&existing).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check email")
	}
	if existing > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}
	user := userModel.UserModel{
		UserEmail:        email,
		UserPasswordHash: string(hash),
		UserFullName:     strings.TrimSpace(req.FullName),
		UserRole:         constants.RoleParent, // self sign-up is always a parent; staff come via invite
		UserIsActive:     true,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create user")
	}

	userID := user.UserID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionUserRegister,
		ActorID:      &userID,
		ResourceType: "user",
		ResourceID:   &userID,
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return ctl.respondWithTokens(c, &user, fiber.StatusCreated, "account created")
}

/* ===============================
   LOGIN
   POST /api/auth/login
   =============================== */
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var user userModel.UserModel
	err := ctl.DB.WithContext(c.Context()).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "account has been deactivated")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(req.Password)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	userID := user.UserID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionUserLogin,
		ActorID:      &userID,
		ResourceType: "user",
		ResourceID:   &userID,
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return ctl.respondWithTokens(c, &user, fiber.StatusOK, "login ok")
}

/* ===============================
   GOOGLE LOGIN
   POST /api/auth/login/google
   =============================== */
func (ctl *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if configs.GoogleClientID == "" {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Google login is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil || claimSet.Email == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid Google token")
	}

	email := strings.ToLower(claimSet.Email)
	var user userModel.UserModel
	err = ctl.DB.WithContext(c.Context()).
		Where("user_email = ?", email).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = userModel.UserModel{
			UserEmail:        email,
			UserPasswordHash: "-", // no local password for Google accounts
			UserFullName:     claimSet.Name,
			UserRole:         constants.RoleParent,
			UserIsActive:     true,
		}
		if err := ctl.DB.WithContext(c.Context()).Create(&user).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create user")
		}
	} else if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "account has been deactivated")
	}

	userID := user.UserID
	ctl.Audit.Record(c.Context(), auditService.Entry{
		Action:       auditService.ActionUserLogin,
		ActorID:      &userID,
		ResourceType: "user",
		ResourceID:   &userID,
		Metadata:     map[string]any{"provider": "google"},
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	return ctl.respondWithTokens(c, &user, fiber.StatusOK, "login ok")
}

/* ===============================
   REFRESH
   POST /api/auth/refresh
   =============================== */
func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	claims, err := authService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}
	rawID, _ := claims["user_id"].(string)
	if rawID == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ?", rawID).
		Take(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "user not found")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "account has been deactivated")
	}
	return ctl.respondWithTokens(c, &user, fiber.StatusOK, "token refreshed")
}

func (ctl *AuthController) respondWithTokens(c *fiber.Ctx, user *userModel.UserModel, status int, message string) error {
	access, err := authService.IssueAccessToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue token")
	}
	refresh, err := authService.IssueRefreshToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue token")
	}
	resp := dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserResponse{
			UserID:       user.UserID.String(),
			UserEmail:    user.UserEmail,
			UserFullName: user.UserFullName,
			UserRole:     user.UserRole,
		},
	}
	if user.UserSchoolID != nil {
		s := user.UserSchoolID.String()
		resp.User.UserSchoolID = &s
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    resp,
	})
}
