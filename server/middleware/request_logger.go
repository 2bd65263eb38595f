package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger tags every request with a generated request ID and logs
// method, path, status and duration on completion.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(requestIDHeader, requestID)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			slog.Info("request",
				"request_id", requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
