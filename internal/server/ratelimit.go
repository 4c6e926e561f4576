package server

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimit bounds requests to a route with a token bucket.
// A zero RequestsPerSecond disables the limit.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

// limit returns middleware enforcing rl across all clients. Requests over the
// limit are rejected with 429 and a Retry-After header.
func (rl RateLimit) limit(next http.Handler) http.Handler {
	if rl.RequestsPerSecond <= 0 {
		return next
	}
	burst := rl.Burst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reservation := limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded", Stage: stageRequest})
			return
		}
		next.ServeHTTP(w, r)
	})
}
