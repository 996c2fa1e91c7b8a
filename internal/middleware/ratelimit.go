package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/lmartins/shortly/internal/ratelimit"
)

// RateLimiter returns a Huma middleware that limits requests per client IP
// and User-Agent. Only operations carrying a ratelimit.EndpointConfig in
// their metadata are limited; everything else passes through.
//
// Store failures fail open: a broken Redis should slow abuse handling, not
// take the write path down with it.
func RateLimiter(api huma.API, store ratelimit.Store, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg == nil {
			next(ctx)

			return
		}

		limiter := ratelimit.NewSlidingWindowLimiter(store, cfg.Max, cfg.Window)
		key := clientKey(ctx) + "|" + operationPath(ctx)

		allowed, err := limiter.Allow(ctx.Context(), key)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("path", operationPath(ctx)), zap.Error(err))
			next(ctx)

			return
		}

		if !allowed {
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next(ctx)
	}
}

// clientKey generates a unique key for rate limiting based on IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := extractClientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}
