package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Auth / checkout / payment verification (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a per-identity token bucket, keyed by user id when
// authenticated and client IP otherwise.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{visitors: make(map[string]*visitor)}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup removes idle entries to prevent the visitors map growing forever.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Limit applies the general tier to every request.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return rl.limit(limitGeneral, burstGeneral, "general")
}

// LimitStrict applies the strict tier; intended for login, checkout and
// payment verification routes.
func (rl *RateLimiter) LimitStrict() gin.HandlerFunc {
	return rl.limit(limitStrict, burstStrict, "strict")
}

func (rl *RateLimiter) limit(r rate.Limit, b int, tier string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity string
		if userID, ok := UserID(c); ok {
			identity = fmt.Sprintf("user:%d", userID)
		} else {
			identity = "ip:" + c.ClientIP()
		}

		// the same caller gets separate quotas for strict vs general actions
		key := identity + ":" + tier

		if !rl.getVisitor(key, r, b).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
