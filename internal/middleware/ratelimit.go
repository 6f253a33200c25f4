package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/burrowlab/burrowtrack/pkg/response"
)

// RateLimiter caps each client IP to a number of requests per sliding
// window, tracked as a log of request times. Frame ingest can arrive
// in bursts from the tracking pipeline, so the window and limit are
// caller-configured rather than fixed.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
	limit   int
	window  time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window
// and starts its background sweep.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
	go rl.sweep()
	return rl
}

// sweep drops clients that have been idle for a full window so the
// map does not grow with every IP ever seen.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for ip, times := range rl.clients {
			if pruned := prune(times, cutoff); len(pruned) == 0 {
				delete(rl.clients, ip)
			} else {
				rl.clients[ip] = pruned
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records a request from ip and reports whether it fits inside
// the window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	recent := prune(rl.clients[ip], now.Add(-rl.window))

	if len(recent) >= rl.limit {
		rl.clients[ip] = recent
		return false
	}

	rl.clients[ip] = append(recent, now)
	return true
}

// prune keeps only the times after cutoff, preserving order.
func prune(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// RateLimit limits requests per client IP.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			log.Printf("[RateLimit] throttled %s (%d requests / %v)", ip, limit, window)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
