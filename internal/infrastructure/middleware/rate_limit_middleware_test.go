package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mediroom/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewHTTPRateLimitMiddleware(cfg))
	router.POST("/api/token", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHTTPRateLimitMiddleware_Disabled_AllowsRequests(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimiting.Enabled = false

	router := newRateLimitRouter(cfg)

	for i := 0; i < 3; i++ {
		w := doRequest(router, http.MethodPost, "/api/token")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestHTTPRateLimitMiddleware_Enabled_LimitsPerIP(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.HTTP.RequestsPerSecond = 1
	cfg.RateLimiting.HTTP.Burst = 1
	cfg.RateLimiting.HTTP.MaxConcurrent = 0

	router := newRateLimitRouter(cfg)

	w1 := doRequest(router, http.MethodPost, "/api/token")
	assert.Equal(t, http.StatusOK, w1.Code)

	// Second immediate request from the same client exceeds the budget.
	w2 := doRequest(router, http.MethodPost, "/api/token")
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w2.Body.String())
}

func TestHTTPRateLimitMiddleware_HealthExempt(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.HTTP.RequestsPerSecond = 1
	cfg.RateLimiting.HTTP.Burst = 1
	cfg.RateLimiting.HTTP.MaxConcurrent = 0

	router := newRateLimitRouter(cfg)

	// Exhaust the per-IP budget on the API.
	doRequest(router, http.MethodPost, "/api/token")
	w := doRequest(router, http.MethodPost, "/api/token")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Probes keep passing regardless.
	for i := 0; i < 3; i++ {
		h := doRequest(router, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, h.Code)
	}
}
