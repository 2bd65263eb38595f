package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Run("BurstThenReject", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, 3)
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("10.0.0.1"))
		}
		assert.False(t, rl.Allow("10.0.0.1"))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, 1)
		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"))
	})

	t.Run("DefaultsApplyWhenConfigInvalid", func(t *testing.T) {
		rl := NewRateLimiter(0, 0)
		assert.True(t, rl.Allow("10.0.0.1"))
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(time.Hour, 1)
	e.Use(rl.Middleware())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
