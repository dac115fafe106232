package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

var (
	unlockLimiters = make(map[string]*rate.Limiter)
	limitersMutex  sync.Mutex
)

func getUnlockLimiter(ip string) *rate.Limiter {
	limitersMutex.Lock()
	defer limitersMutex.Unlock()

	if limiter, exists := unlockLimiters[ip]; exists {
		return limiter
	}
	// slow enough to make PIN guessing impractical, fast enough for fat fingers
	limiter := rate.NewLimiter(1, 3)
	unlockLimiters[ip] = limiter
	return limiter
}

// UnlockRateLimitMiddleware throttles PIN unlock attempts per client IP
func UnlockRateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		limiter := getUnlockLimiter(ip)
		if !limiter.Allow() {
			http.Error(w, "Too many unlock attempts", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
