package utils

import (
	"errors"
	"time"

	"podstudio/config"

	"github.com/golang-jwt/jwt"
)

const defaultDevSecret = "podstudio-dev-secret"

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" && !config.IsProduction() {
		secret = defaultDevSecret
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT token whose subject is the admin ID.
// The token expires after the specified duration.
func GenerateToken(subject, email string, duration time.Duration) (string, error) {
	if len(secretKey()) == 0 {
		return "", errors.New("JWT_SECRET is not configured")
	}
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	key := secretKey()
	if len(key) == 0 {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
}

// ExtractIDFromToken extracts the subject from a valid JWT token string.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
