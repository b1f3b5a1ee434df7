// file: internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"izinku_backend/internals/configs"
	userModel "izinku_backend/internals/features/users/users/model"
)

const (
	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// IssueAccessToken signs the short-lived token the auth middleware verifies.
func IssueAccessToken(u *userModel.UserModel) (string, error) {
	return issue(u, configs.JWTSecret, AccessTokenTTL)
}

func IssueRefreshToken(u *userModel.UserModel) (string, error) {
	return issue(u, configs.JWTRefreshSecret, RefreshTokenTTL)
}

func issue(u *userModel.UserModel, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("missing JWT secret")
	}
	claims := jwt.MapClaims{
		"user_id":   u.UserID.String(),
		"user_name": u.UserFullName,
		"role":      u.UserRole,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(ttl).Unix(),
	}
	if u.UserSchoolID != nil {
		claims["school_id"] = u.UserSchoolID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseRefreshToken verifies a refresh token and returns its claims.
func ParseRefreshToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
