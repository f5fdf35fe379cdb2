// Package auth issues and verifies caller-identity tokens. A token is an
// HS256-signed JWT whose subject is the hex encoding of the caller's
// 32-byte identity. Verification proves possession of the identity; all
// per-record authorization happens in the domain layer against the stored
// owner.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen11/record-registry/internal/domain"
)

// GenerateToken signs a token for the given identity, valid for ttl.
func GenerateToken(identity domain.Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   identity.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// IdentityFromToken verifies tokenString and returns the caller identity
// from its subject claim. Only HS256 signatures are accepted.
func IdentityFromToken(tokenString string, secret []byte) (domain.Identity, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	identity, err := domain.ParseIdentity(claims.Subject)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: subject: %v", domain.ErrUnauthenticated, err)
	}
	return identity, nil
}
