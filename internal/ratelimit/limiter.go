// Package ratelimit throttles requests per client IP.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per client key.
type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// New creates a limiter allowing requestsPerSecond with the given burst.
// Clients idle longer than idleTTL are forgotten. A non-positive rate
// disables limiting.
func New(requestsPerSecond float64, burst int, idleTTL time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{
		clients: make(map[string]*client),
		rate:    limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > l.idleTTL {
		l.pruneLocked(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Len reports how many clients are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) pruneLocked(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, key)
		}
	}
	l.lastPrune = now
}

// Middleware rejects requests over the limit with the handler returned by
// reject, keyed by client IP.
func (l *Limiter) Middleware(reject http.Handler) func(http.Handler) http.Handler {
	if reject == nil {
		reject = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r)) {
				reject.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
