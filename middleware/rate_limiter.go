package middleware

import (
	"net/http"
	"sync"
	"time"

	"api/metrics"

	"github.com/gin-gonic/gin"
)

type RateLimiter struct {
	visitors map[string]*Visitor
	mu       sync.Mutex
	rate     int           // Maximum requests per minute
	burst    int           // Burst capacity
	interval time.Duration // Refill interval
}

type Visitor struct {
	tokens      int
	lastUpdated time.Time
}

func NewRateLimiter(rate int, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		burst:    burst,
		interval: time.Minute,
	}
	go rl.evictLoop()
	return rl
}

// evictLoop drops visitors that have been idle long enough to be fully
// refilled, keeping the map bounded.
func (rl *RateLimiter) evictLoop() {
	for {
		time.Sleep(10 * time.Minute)

		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, visitor := range rl.visitors {
			if visitor.lastUpdated.Before(cutoff) {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	visitor, exists := rl.visitors[key]
	if !exists {
		visitor = &Visitor{
			tokens:      rl.burst,
			lastUpdated: time.Now(),
		}
		rl.visitors[key] = visitor
	}

	// Refill tokens
	now := time.Now()
	elapsed := now.Sub(visitor.lastUpdated)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		visitor.tokens += refill * rl.rate
		if visitor.tokens > rl.burst {
			visitor.tokens = rl.burst
		}
		visitor.lastUpdated = now
	}

	// Check if request is allowed
	if visitor.tokens > 0 {
		visitor.tokens--
		return true
	}

	return false
}

// limiterKey buckets authenticated sessions by their token instead of by IP,
// so mobile clients behind a shared NAT are not throttled collectively.
func limiterKey(c *gin.Context) string {
	if token, err := c.Cookie("auth_token"); err == nil && token != "" {
		return token
	}
	return c.ClientIP()
}

func RateLimiterMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(limiterKey(c)) {
			metrics.RateLimiterRejections.WithLabelValues(c.ClientIP()).Inc()

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
