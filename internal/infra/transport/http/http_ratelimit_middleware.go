package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mkrupp/recipe-api/internal/infra/logging"
)

// RateLimitConfig contains configuration parameters for per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client
	RequestsPerSecond float64 `env:"RPS" default:"1"`
	// Burst is the number of requests a client may make at once
	Burst int `env:"BURST" default:"5"`
	// IdleTTL is how long an idle client's limiter is kept
	IdleTTL time.Duration `env:"IDLE_TTL" default:"10m"`
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	cfg RateLimitConfig
	log logging.Logger
	now func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastPrune time.Time
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		log:     logging.GetLogger("infra.transport.http.ratelimit"),
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether the client identified by key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.clients[key] = cl
	}

	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) prune(now time.Time) {
	if rl.cfg.IdleTTL <= 0 || now.Sub(rl.lastPrune) < rl.cfg.IdleTTL {
		return
	}

	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) >= rl.cfg.IdleTTL {
			delete(rl.clients, key)
		}
	}

	rl.lastPrune = now
}

// Middleware answers 429 once the client's bucket is empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ClientAddr(r)

		if !rl.Allow(key) {
			rl.log.WarnContext(r.Context(), "rate limit exceeded", logging.Group("http",
				"client", key,
				"method", r.Method,
				"path", r.URL.Path,
			))

			if rl.cfg.RequestsPerSecond > 0 {
				retry := max(1, int(1/rl.cfg.RequestsPerSecond))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
			}

			WriteError(w, r, ErrRateLimited)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientAddr returns the host part of the request's remote address.
func ClientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
