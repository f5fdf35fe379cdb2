package middleware

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/record-registry/internal/adapters/http/dto"
	"github.com/jsamuelsen11/record-registry/internal/domain"
)

// RateLimit returns middleware that bounds the inbound request rate with a
// token bucket shared across all clients. Requests over the limit are
// rejected immediately with 503 rather than queued, keeping latency flat
// under overload.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				dto.WriteErrorResponse(w, r, fmt.Errorf("%w: request rate limit exceeded", domain.ErrUnavailable))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
