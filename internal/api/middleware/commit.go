package middleware

import "github.com/labstack/echo/v4"

// CommitErrors hands handler errors to the HTTP error handler before
// returning to outer middleware, so that they observe the final status
// code instead of a raw error.
func CommitErrors() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				c.Error(err)
			}
			return nil
		}
	}
}
