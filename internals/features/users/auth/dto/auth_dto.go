// file: internals/features/users/auth/dto/auth_dto.go
package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=160"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=160"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UserID       string  `json:"user_id"`
	UserEmail    string  `json:"user_email"`
	UserFullName string  `json:"user_full_name"`
	UserRole     string  `json:"user_role"`
	UserSchoolID *string `json:"user_school_id,omitempty"`
}
