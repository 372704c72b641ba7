package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimiter gives every client IP its own token bucket. Buckets live in a
// bounded LRU so idle clients are evicted instead of swept by a goroutine.
type RateLimiter struct {
	clients *lru.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client with
// bursts of up to burst requests, tracking at most maxClients clients
func NewRateLimiter(requestsPerMinute, burst, maxClients int) (*RateLimiter, error) {
	clients, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		clients: clients,
		limit:   rate.Limit(float64(requestsPerMinute) / 60),
		burst:   burst,
	}, nil
}

// Middleware returns a rate limiting middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.limiterFor(ClientIP(r))
		if !limiter.Allow() {
			retryAfter := int(1/float64(rl.limit)) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeAuthError(w, http.StatusTooManyRequests, "RateLimitExceeded", "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiterFor(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.clients.Get(clientID); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients.Add(clientID, limiter)
	return limiter
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// left to chi's RealIP middleware, which rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
