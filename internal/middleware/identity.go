package middleware

import "github.com/labstack/echo/v4"

// staffID returns the authenticated staff id, or "anon" for guest traffic.
func staffID(c echo.Context) string {
	if s, ok := c.Get(ContextStaffID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
