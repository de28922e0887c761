package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterAdmin registers staff endpoints under /v1/admin.  Every route
// requires a valid JWT; cache control is reserved to admins.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin", "staff"),
	)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.DELETE("/cache/availability", b.InvalidateAvailability, middleware.RequireRole("admin"))
}
