package middleware

import "github.com/labstack/echo/v4"

// subject returns the authenticated subject stored by JWTAuth, or "anon"
// for guests.
func subject(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}

// passthrough is the no-op middleware used when Redis is unavailable.
func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
