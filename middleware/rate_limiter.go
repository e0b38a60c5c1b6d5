package middleware

import (
	"net/http"
	"sync"
	"time"

	"neoncut/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds one token bucket per client IP.
type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	perMin   int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 200
	}
	return &rateLimiterStore{limiters: make(map[string]*limiterEntry), perMin: perMinute}
}

// getLimiter returns the limiter for ip, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// evict forgets clients idle since before cutoff.
func (s *rateLimiterStore) evict(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, e := range s.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(s.limiters, ip)
		}
	}
}

// RateLimitMiddleware allows perMinute requests per client IP, with a burst of
// the same size.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	var requests uint64
	return func(c *gin.Context) {
		now := time.Now()
		ip := getClientIP(c)
		limiter := store.getLimiter(ip, now)

		store.mu.Lock()
		requests++
		sweep := requests%1000 == 0
		store.mu.Unlock()
		if sweep {
			store.evict(now.Add(-10 * time.Minute))
		}

		if !limiter.Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.Abort()
			utils.JSONError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", "")
			return
		}
		c.Next()
	}
}
