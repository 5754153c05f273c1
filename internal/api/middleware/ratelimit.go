package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/roomstack/roombook/internal/api/response"
	"github.com/roomstack/roombook/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// RateLimitMiddleware throttles authenticated requests per user
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting keyed by the authenticated user. A failing
// limiter lets the request through; throttling is best-effort.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		if !ok {
			response.Unauthorized(w, "authentication required")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), principal.UserID.String())
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
