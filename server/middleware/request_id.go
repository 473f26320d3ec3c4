package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every response with a short unique identifier, reusing
// the caller's when one is supplied.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = shortuuid.New()
			}
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}
