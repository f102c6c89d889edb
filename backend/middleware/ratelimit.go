package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type client struct {
	count    int
	windowAt time.Time
}

// RateLimiter caps requests per remote address within a rolling window. It
// guards the login and register endpoints against credential stuffing.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
	}
	go rl.sweep()
	return rl
}

// sweep drops counters whose window has lapsed so the map does not grow
// with every address ever seen.
func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(rl.window)
		rl.mu.Lock()
		for addr, c := range rl.clients {
			if time.Since(c.windowAt) > rl.window {
				delete(rl.clients, addr)
			}
		}
		rl.mu.Unlock()
	}
}

// remoteIP prefers X-Forwarded-For so limits apply to the real caller when
// the app sits behind a proxy.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[addr]
	if !ok || time.Since(c.windowAt) > rl.window {
		rl.clients[addr] = &client{count: 1, windowAt: time.Now()}
		return true
	}
	if c.count >= rl.limit {
		return false
	}
	c.count++
	return true
}

// Limit rejects requests over the per-address cap with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(remoteIP(r)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LimitFunc wraps a HandlerFunc
func (rl *RateLimiter) LimitFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rl.Limit(next).ServeHTTP(w, r)
	}
}
