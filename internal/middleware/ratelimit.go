package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dealdesk/backend/api/transport"
	"github.com/dealdesk/backend/domain"
)

// rateLimiter counts requests per client IP in a fixed window. Counters
// reset wholesale when the window rolls over.
type rateLimiter struct {
	mu          sync.Mutex
	windowStart time.Time
	counts      map[string]int

	max    int
	window time.Duration
	logger *zap.Logger
}

// RateLimit caps each client IP at max requests per window, answering 429
// with the standard error envelope beyond that.
func RateLimit(max int, window time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := &rateLimiter{
		windowStart: time.Now(),
		counts:      make(map[string]int),
		max:         max,
		window:      window,
		logger:      logger,
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if rl.max <= 0 || rl.allow(ctx.RemoteIP().String()) {
				next(ctx)
				return
			}

			rl.logger.Warn("rate limit exceeded", zap.String("ip", ctx.RemoteIP().String()))
			envelope := transport.NewError(string(domain.ErrCodeRateLimited),
				"Too many requests, please try again later")
			body, _ := json.Marshal(envelope)
			ctx.Response.Header.SetContentType("application/json")
			ctx.SetStatusCode(http.StatusTooManyRequests)
			ctx.SetBody(body)
		}
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.windowStart) >= rl.window {
		rl.windowStart = now
		rl.counts = make(map[string]int)
	}

	rl.counts[ip]++
	return rl.counts[ip] <= rl.max
}
