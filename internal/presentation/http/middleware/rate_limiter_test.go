package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(rl *OperatorRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Employee"); id == "1" {
			c.Set("employee_id", int64(1))
		} else if id == "2" {
			c.Set("employee_id", int64(2))
		}
		c.Next()
	})
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func ping(r *gin.Engine, employee string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Employee", employee)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestOperatorRateLimiter_PerEmployee(t *testing.T) {
	rl := NewOperatorRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Minute, EntryTTL: time.Minute})
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, ping(r, "1"))
	assert.Equal(t, http.StatusOK, ping(r, "1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "1"))

	assert.Equal(t, http.StatusOK, ping(r, "2"))
	assert.Equal(t, http.StatusOK, ping(r, ""))
}

func TestOperatorRateLimiter_Cleanup(t *testing.T) {
	rl := NewOperatorRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, CleanupInterval: time.Minute, EntryTTL: time.Minute})
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter(1)
	now = now.Add(2 * time.Minute)
	rl.getLimiter(2)
	rl.cleanup()

	assert.Equal(t, 1, rl.Stats()["active_operators"])
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	cfg = RateLimiterConfigFrom(0, 0)
	assert.Equal(t, 100, cfg.BurstSize)
}
