package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"storesync_api/metrics"
)

// Prometheus records request count and duration for every route.
func Prometheus() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				} else {
					status = 500
				}
			}

			metrics.RecordRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}
