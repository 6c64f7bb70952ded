package security

import (
	"errors"
	"time"
	"thesis_hub/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

func GenerateToken(userID int, email string, roles []string) (string, error) {
	claims := jwt.MapClaims{
		"jti":     uuid.NewString(),
		"user_id": userID,
		"email":   email,
		"roles":   roles,
		"exp":     time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, can be used in middleware or services

func GetUserIDFromClaims(claims map[string]interface{}) (int, error) {
	// jwtauth decodes numeric claims as float64
	switch id := claims["user_id"].(type) {
	case float64:
		return int(id), nil
	case int:
		return id, nil
	}
	return 0, errors.New("user_id claim is missing or not a number")
}

func GetEmailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}

func GetRolesFromClaims(claims map[string]interface{}) ([]string, error) {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return nil, errors.New("roles claim is missing or not a list")
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, errors.New("roles claim contains a non-string entry")
		}
		roles = append(roles, s)
	}
	return roles, nil
}
