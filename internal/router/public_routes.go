package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterPublic registers the guest-facing endpoints.  Search and confirm
// pass through limit, which may be a pass-through when rate limiting is off.
func RegisterPublic(e *echo.Echo, a *handler.AvailabilityHandler, cat *handler.CatalogHandler,
	b *handler.BookingHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")

	av := g.Group("/availability", limit)
	av.GET("/search", a.SearchRooms, middleware.ConditionalGET())
	av.POST("/confirm", a.Confirm)

	g.GET("/extras", cat.ListExtras, middleware.ConditionalGET())
	g.GET("/rooms/:id", cat.GetRoom, middleware.ConditionalGET())
	g.GET("/bookings/locate/:locator", b.Locate, limit)
}
