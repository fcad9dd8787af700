package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllow_EnforcesMinuteLimit(t *testing.T) {
	limiter := New(3, 100, 1000, true)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow())
}

func TestAllow_DisabledLimiterPassesEverything(t *testing.T) {
	limiter := New(1, 1, 1, false)

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow())
	}
}

func TestReset(t *testing.T) {
	limiter := New(1, 100, 1000, true)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	limiter.Reset()
	assert.True(t, limiter.Allow())
}

func TestGetStats(t *testing.T) {
	limiter := New(10, 100, 1000, true)

	limiter.Allow()
	limiter.Allow()

	stats := limiter.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsLastMinute)
	assert.Equal(t, 2, stats.RequestsLastHour)
	assert.Equal(t, 2, stats.RequestsLastDay)
	assert.Equal(t, 10, stats.LimitPerMinute)
}

func TestMiddleware_Returns429WhenExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := New(1, 100, 1000, true)

	r := gin.New()
	r.POST("/write", Middleware(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
