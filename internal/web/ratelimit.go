package web

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/JonMunkholm/sheetmerge/internal/core"
	mw "github.com/JonMunkholm/sheetmerge/internal/web/middleware"
)

// errRateLimited maps to RATE001.
var errRateLimited = errors.New("rate limit exceeded")

// rateLimiter is a fixed-window counter per client IP.
type rateLimiter struct {
	rate   int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor

	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		rate:     rate,
		window:   window,
		now:      time.Now,
		visitors: make(map[string]*visitor),
		done:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// cleanupLoop drops visitors idle for two windows until stop is called.
func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastReset) > rl.window*2 {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow consumes one token for ip and reports whether the request may proceed.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok || now.Sub(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// middleware rejects requests over the limit with 429.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(mw.RemoteIP(r).String()) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			respondErrorJSON(w, core.MapError(errRateLimited), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
