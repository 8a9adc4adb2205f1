package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"fpbg/internal/logs"
	"fpbg/internal/models"
)

// RateLimiter limite les endpoints sensibles (register/verify/resend)
// par adresse IP cliente.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Handler refuse en 429 au-delà du débit autorisé pour l'IP.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			key = r.RemoteAddr
		}
		if !rl.get(key).Allow() {
			logs.Logger.Warnf("rate limit dépassé ip=%s uri=%s", key, r.RequestURI)
			models.WriteJSON(w, http.StatusTooManyRequests, models.ErrorBody{
				Error: "trop de requêtes, réessayez plus tard",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
