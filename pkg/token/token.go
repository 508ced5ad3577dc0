// Package token issues and validates the JWT session tokens exchanged
// between the store layer and the gateway, plus bcrypt password helpers
// for the development gateway.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"shopstream/config"
)

// TTLs for the three token kinds the auth flow uses.
const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
	VerifyTTL  = time.Hour // one-time email verification links
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"` // "access" | "refresh" | "verify"
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

func generate(userID uint, email, purpose string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateAccess creates a signed access token for the given user.
func GenerateAccess(userID uint, email string) (string, error) {
	return generate(userID, email, "access", AccessTTL)
}

// GenerateRefresh creates a longer-lived token used to refresh access.
func GenerateRefresh(userID uint, email string) (string, error) {
	return generate(userID, email, "refresh", RefreshTTL)
}

// GenerateVerify creates the short-lived one-time token embedded in email
// verification links.
func GenerateVerify(userID uint, email string) (string, error) {
	return generate(userID, email, "verify", VerifyTTL)
}

// Validate parses and validates a JWT string.
func Validate(t string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(t, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// IsExpired reports whether the validation error is specifically expiry,
// so callers can surface a distinct message for stale verification links.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
