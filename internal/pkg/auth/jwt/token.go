/*
Package jwt issues and validates HS256 identity tokens.

It is the local Credential Validator used in development and tests, and by deployments
that sign their own tokens instead of delegating to the identity provider.
*/
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"moviehub/internal/app/user"
	"moviehub/internal/pkg/auth"
)

const (
	// DefaultExpiration is the lifetime of tokens minted without an explicit duration.
	DefaultExpiration = 24 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "moviehub"
)

// GenerateToken signs a token for u that expires after duration.
func GenerateToken(u user.User, secretKey string, duration time.Duration) (string, error) {
	if u.ID == "" {
		return "", errors.New("jwt: user id is required")
	}
	if duration <= 0 {
		duration = DefaultExpiration
	}

	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID,
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		Name:  u.Name,
		Email: u.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates tokenString using secretKey.
func ParseToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// Validator is an auth.Validator backed by a shared HMAC secret.
type Validator struct {
	secret string
}

// NewValidator returns a Validator for tokens signed with secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: secret}
}

// Validate implements auth.Validator.
func (v *Validator) Validate(_ context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, auth.ErrUnauthorized
	}

	claims, err := ParseToken(token, v.secret)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
	}

	return user.User{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}
