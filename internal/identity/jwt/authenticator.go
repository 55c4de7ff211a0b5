// Package jwt issues and verifies HS256 session tokens.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bissquit/userdesk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenDuration is the lifetime of a session token.
const DefaultTokenDuration = time.Hour

// ErrInvalidToken is returned for any token that fails verification.
// Malformed, expired and wrongly signed tokens are not distinguished.
var ErrInvalidToken = errors.New("invalid or expired token")

// Config contains authenticator settings.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Claims are the session token claims.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Type   domain.Role `json:"type"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates session tokens.
type Authenticator struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewAuthenticator creates a new authenticator. An empty secret is rejected.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}

	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = DefaultTokenDuration
	}

	return &Authenticator{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
		now:      time.Now,
	}, nil
}

// IssueToken creates a signed token for the identity.
func (a *Authenticator) IssueToken(_ context.Context, identity domain.Identity) (string, error) {
	now := a.now()
	claims := Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Type:   identity.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.duration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies signature and expiry and returns the identity.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (domain.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	if claims.UserID == "" || !claims.Type.IsValid() {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Type:  claims.Type,
	}, nil
}
