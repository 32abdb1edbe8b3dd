package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration

	// trustProxy makes X-Forwarded-For and X-Real-IP authoritative.
	// Only enable it when a reverse proxy overwrites those headers.
	trustProxy bool
}

// NewIPRateLimiter creates a new IP-based rate limiter
// r: requests per second, b: burst size
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		idleTTL:  5 * time.Minute,
	}
}

// GetLimiter returns the rate limiter for the given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// TrustProxyHeaders sets whether client IPs are read from proxy headers
func (l *IPRateLimiter) TrustProxyHeaders(trust bool) {
	l.mu.Lock()
	l.trustProxy = trust
	l.mu.Unlock()
}

func (l *IPRateLimiter) trustsProxy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trustProxy
}

// Allow checks if the request from the given IP is allowed
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.GetLimiter(ip).Allow()
}

// Sweep forgets visitors idle for longer than the TTL and returns how many were removed
func (l *IPRateLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunCleanup sweeps idle visitors every interval until ctx is done
func (l *IPRateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.Sweep(now)
		case <-ctx.Done():
			return
		}
	}
}

// getIP extracts the client IP from the request. Proxy headers are
// client-controlled unless a proxy rewrites them, so they count only when trusted.
func getIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// First hop of X-Forwarded-For (reverse proxies)
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}

		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return realIP
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitFunc wraps a HandlerFunc with rate limiting
func RateLimitFunc(limiter *IPRateLimiter, logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r, limiter.trustsProxy())

		if !limiter.Allow(ip) {
			logger.Warn("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	}
}
