package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"libris_back_end/internal/models"
)

// GenerateJWT signe un token HS256 portant l'identité complète renvoyée au
// client (le nom sert de snapshot pour les avis).
func GenerateJWT(user models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
