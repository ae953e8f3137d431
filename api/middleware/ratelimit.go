package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/use-agent/mediascout/config"
	"github.com/use-agent/mediascout/models"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per identity.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

func (s *limiterSet) get(identity string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.limiters[identity]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[identity] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (s *limiterSet) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(s.limiters, id)
		}
	}
}

// RateLimit returns per-identity (API key or IP) token-bucket rate limiting
// middleware. Rejected requests get a Retry-After header.
//
// Entries unused for 1 hour are evicted every 5 minutes.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	set := &limiterSet{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			set.evictIdle(time.Now().Add(-time.Hour))
		}
	}()

	return func(c *gin.Context) {
		// Prefer the API key set by Auth; fall back to client IP.
		identity := c.GetString(apiKeyContext)
		if identity == "" {
			identity = c.ClientIP()
		}

		now := time.Now()
		r := set.get(identity, now).ReserveN(now, 1)
		if !r.OK() {
			abort(c, http.StatusTooManyRequests, models.ErrCodeRateLimited, "rate limit exceeded, please slow down")
			return
		}
		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			abort(c, http.StatusTooManyRequests, models.ErrCodeRateLimited, "rate limit exceeded, please slow down")
			return
		}

		c.Next()
	}
}
