package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit rate.Limit = 10
	burst            = 20
)

// Configure sets the per-visitor rate for limiters created from now on.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	limit = rate.Limit(rps)
	burst = b
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop forgets visitors idle for more than maxIdle until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evictIdle(maxIdle)
		}
	}
}

func evictIdle(maxIdle time.Duration) int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(visitors, ip)
			n++
		}
	}
	return n
}

func VisitorCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(visitors)
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}
