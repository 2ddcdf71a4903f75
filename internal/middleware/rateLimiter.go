package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedIPs  = 10_000
	visitorIdleTTL = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client ip.
type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	rateLimit rate.Limit
	burstRate int
	now       func() time.Time
}

// NewIPRateLimiter returns nil when perSecond is not positive, which turns limiting off.
func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		ips:       make(map[string]*visitor),
		rateLimit: rate.Limit(perSecond),
		burstRate: burst,
		now:       time.Now,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	v, exists := i.ips[ip]
	if !exists {
		if len(i.ips) >= maxTrackedIPs {
			i.pruneIdle(now)
		}
		v = &visitor{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// pruneIdle must be called with mu held.
func (i *IPRateLimiter) pruneIdle(now time.Time) {
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) tracked() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}
