package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter provides rate limiting using a sliding window per client IP.
type RateLimiter struct {
	requests int
	window   time.Duration
	clients  map[string]*clientWindow
	mu       sync.RWMutex
	stop     chan struct{}
	stopOnce sync.Once
}

type clientWindow struct {
	timestamps []time.Time
	mu         sync.Mutex
}

func NewRateLimiter(requests, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		clients:  make(map[string]*clientWindow),
		stop:     make(chan struct{}),
	}

	go rl.cleanupLoop()
	return rl
}

// Stop terminates the cleanup goroutine. The limiter keeps serving allow
// decisions afterwards; only the idle-client eviction stops.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for key, cw := range rl.clients {
			cw.mu.Lock()
			if len(cw.timestamps) == 0 || cw.timestamps[len(cw.timestamps)-1].Before(cutoff) {
				delete(rl.clients, key)
			}
			cw.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

// Allow records a hit for the client key and reports whether it fits the
// window, along with the remaining quota.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	cw, ok := rl.clients[key]
	if !ok {
		cw = &clientWindow{}
		rl.clients[key] = cw
	}
	rl.mu.Unlock()

	cw.mu.Lock()
	defer cw.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	kept := cw.timestamps[:0]
	for _, ts := range cw.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	cw.timestamps = kept

	if len(cw.timestamps) >= rl.requests {
		return false, 0
	}
	cw.timestamps = append(cw.timestamps, time.Now())
	return true, rl.requests - len(cw.timestamps)
}

func RateLimit(requests, windowSeconds int) func(http.Handler) http.Handler {
	rl := NewRateLimiter(requests, windowSeconds)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			ok, remaining := rl.Allow(host)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
