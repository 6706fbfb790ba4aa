package middleware

import (
	"net"
	"net/http"
	"sync"

	"mediroom/pkg/config"
	"mediroom/pkg/errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Health probes and metrics scrapers run on their own schedules and must not
// consume the web clients' request budget.
var rateLimitExemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// visitorLimiters holds one token bucket per client IP. Entries are never
// evicted; the set of clinic and dashboard origins hitting this service is
// small and stable.
type visitorLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newVisitorLimiters(r rate.Limit, burst int) *visitorLimiters {
	return &visitorLimiters{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

func (v *visitorLimiters) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	limiter, ok := v.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(v.rate, v.burst)
		v.limiters[ip] = limiter
	}
	return limiter
}

// clientIP extracts the IP part from the request's remote address, honoring
// X-Forwarded-For when the service sits behind the platform's proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := net.ParseIP(xff); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewHTTPRateLimitMiddleware applies per-IP rate limiting to the API
// endpoints plus an optional global concurrency cap.
func NewHTTPRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	if !cfg.RateLimiting.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	visitors := newVisitorLimiters(
		rate.Limit(cfg.RateLimiting.HTTP.RequestsPerSecond),
		cfg.RateLimiting.HTTP.Burst,
	)

	var globalSem chan struct{}
	if cfg.RateLimiting.HTTP.MaxConcurrent > 0 {
		globalSem = make(chan struct{}, cfg.RateLimiting.HTTP.MaxConcurrent)
	}

	return func(c *gin.Context) {
		if _, exempt := rateLimitExemptPaths[c.Request.URL.Path]; exempt {
			c.Next()
			return
		}

		if globalSem != nil {
			select {
			case globalSem <- struct{}{}:
				defer func() { <-globalSem }()
			default:
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": "too many concurrent requests",
				})
				return
			}
		}

		if !visitors.get(clientIP(c.Request)).Allow() {
			appErr := errors.NewRateLimitError()
			c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
			})
			return
		}
		c.Next()
	}
}
