package utils

import (
	"errors"
	"strconv"
	"time"

	"agoge-backend/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	CompanyID string `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	cfg := config.GetConfig()
	if cfg.JWTSecret == "" {
		return []byte("fallback-secret-key-for-development")
	}
	return []byte(cfg.JWTSecret)
}

// GetJWTExpireDuration gets JWT expiration duration from config
func GetJWTExpireDuration() time.Duration {
	cfg := config.GetConfig()
	hours, err := strconv.Atoi(cfg.JWTExpireHours)
	if err != nil || hours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// GetJWTRefreshExpireDuration gets JWT refresh token expiration duration from config
func GetJWTRefreshExpireDuration() time.Duration {
	cfg := config.GetConfig()
	days, err := strconv.Atoi(cfg.JWTRefreshExpireDays)
	if err != nil || days <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(days) * 24 * time.Hour
}

// Generate JWT access token
func GenerateJWT(userID uuid.UUID, email string, companyID *uuid.UUID) (string, error) {
	expireDuration := GetJWTExpireDuration()

	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	if companyID != nil {
		claims.CompanyID = companyID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// Generate Refresh token
func GenerateRefreshJWT(userID uuid.UUID, email string) (string, error) {
	refreshExpireDuration := GetJWTRefreshExpireDuration()

	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshExpireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// Validate JWT token
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Refresh JWT token validate
func ValidateRefreshJWT(tokenString string) (*Claims, error) {
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	return claims, nil
}
