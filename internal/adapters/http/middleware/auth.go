package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/record-registry/internal/adapters/http/dto"
	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/platform/auth"
)

// identityKey is the context key for the verified caller identity.
type identityKey struct{}

// WithIdentity returns a new context carrying the verified caller identity.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the verified caller identity from the context.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// Auth returns middleware that verifies the Bearer token on each request and
// stores the caller identity in the request context. Requests without a
// valid token are rejected with 401. Applied to mutating routes only; reads
// are public.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				dto.WriteErrorResponse(w, r, err)
				return
			}

			identity, err := auth.IdentityFromToken(token, secret)
			if err != nil {
				dto.WriteErrorResponse(w, r, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", domain.ErrUnauthenticated)
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("%w: Authorization header is not a Bearer token", domain.ErrUnauthenticated)
	}
	return strings.TrimPrefix(header, prefix), nil
}
