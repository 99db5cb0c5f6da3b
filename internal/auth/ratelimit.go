package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token-bucket limiter per client IP. Stale entries
// are pruned so the map does not grow with every visitor ever seen.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	limit    rate.Limit
	burst    int
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		limiters: make(map[string]*ipEntry),
		limit:    limit,
		burst:    burst,
	}
	go l.prune()
	return l
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (l *ipLimiter) prune() {
	for range time.Tick(10 * time.Minute) {
		l.mu.Lock()
		for ip, e := range l.limiters {
			if time.Since(e.lastSeen) > 30*time.Minute {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit throttles credential endpoints per client IP to slow brute-force
// attempts. Defaults allow short bursts but cap sustained traffic.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	l := newIPLimiter(limit, burst)
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "too many attempts, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
