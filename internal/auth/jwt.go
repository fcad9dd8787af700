package auth

import (
	"errors"
	"fmt"
	"time"

	"real-estate-crm/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

// Claims are the session attributes carried by a signed token. The role
// claim is re-validated server-side on every request; nothing is trusted
// from the client beyond the verified signature.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the account id the token was issued for.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenManager creates a token manager with the given HMAC key and
// token lifetime.
func NewTokenManager(signingKey string, ttl time.Duration) (*TokenManager, error) {
	if signingKey == "" {
		return nil, errors.New("auth: signing key must not be empty")
	}
	return &TokenManager{signingKey: []byte(signingKey), ttl: ttl}, nil
}

// Generate issues a token for the user, embedding email and role claims.
func (m *TokenManager) Generate(user *models.User) (string, error) {
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

// Validate verifies the signature and expiry and returns the claims.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.signingKey, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
