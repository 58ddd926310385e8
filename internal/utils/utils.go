package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
)

// context key
type ctxKey string

const CtxSessionKey ctxKey = "session"

// SessionClaims is the signed identity carried by the session cookie.
type SessionClaims struct {
	UserID   int64  `json:"uid"`
	FullName string `json:"name"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// FlashClaims carries pending one-shot messages between a redirect and the next page.
type FlashClaims struct {
	Flashes []models.Flash `json:"flashes"`
	jwt.RegisteredClaims
}

func NewSessionClaims(u *models.User, ttl time.Duration) *SessionClaims {
	now := time.Now()
	return &SessionClaims{
		UserID:   u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

// SignToken signs claims with HS256.
func SignToken(claims jwt.Claims, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret not configured")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken parses tokenStr into claims, rejecting other algorithms and
// tokens without an expiry.
func VerifyToken(tokenStr, secret string, claims jwt.Claims) error {
	if secret == "" {
		return errors.New("secret not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	return err
}
