package middlewares

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/utils"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	visitors  map[string]*visitor
	lastSweep time.Time
	mu        sync.Mutex
	now       func() time.Time
}

// NewRateLimiter allows `burst` requests per `interval` for each IP
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(interval / time.Duration(burst)),
		burst:    burst,
		idleTTL:  10 * interval,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// NewStrictRateLimiter -> login/register: 10 attempts per minute per IP
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(10, time.Minute)
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// idle buckets are swept at most once per idleTTL
	if now.Sub(rl.lastSweep) > rl.idleTTL {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.visitors, key)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			utils.RespondError(c, utils.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
