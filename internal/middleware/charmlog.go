// Package middleware carries echo middleware for the control socket.
package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs each request through charmbracelet/log so the socket
// server shares the daemon's log format and destination.
func CharmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Debug("request",
				"method", req.Method,
				"uri", req.RequestURI,
				"status", res.Status,
				"latency", time.Since(start),
			)
			return err
		}
	}
}
