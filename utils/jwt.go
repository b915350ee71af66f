package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"slotbook/config"
)

// AuthClaims is the identity resolved from a token: who the requester
// is and whether they hold the manager role. The manager flag is fixed
// at token issuance so guarded endpoints never re-probe the database.
type AuthClaims struct {
	UserID  string
	Email   string
	Manager bool
}

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT carrying the user id, email and
// manager flag. The token expires after the specified duration.
func GenerateToken(userID, email string, manager bool, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"mgr":   manager,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the
// identity claims it carries.
func ValidateToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	manager, _ := claims["mgr"].(bool)

	return &AuthClaims{UserID: sub, Email: email, Manager: manager}, nil
}
