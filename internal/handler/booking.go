package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingService is implemented by *service.Bookings.
type BookingService interface {
	Get(ctx context.Context, id uint64) (*model.Booking, error)
	Locate(ctx context.Context, locator, pin string) (*model.Booking, error)
	Cancel(ctx context.Context, id uint64) (*model.Booking, error)
}

// CacheInvalidator drops a whole collection.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// BookingHandler serves guest lookups and the staff booking endpoints.
type BookingHandler struct {
	Bookings     BookingService
	Availability CacheInvalidator
	Log          *zap.Logger
}

// Locate handles GET /v1/bookings/locate/:locator?pin=.
func (h *BookingHandler) Locate(c echo.Context) error {
	b, err := h.Bookings.Locate(c.Request().Context(), c.Param("locator"), c.QueryParam("pin"))
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Get handles GET /v1/admin/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid booking id")
	}
	b, err := h.Bookings.Get(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles POST /v1/admin/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid booking id")
	}
	b, err := h.Bookings.Cancel(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.Log, err)
	}
	h.Log.Info("booking cancelled by staff",
		zap.Uint64("booking_id", id),
		zap.Any("staff_id", c.Get(middleware.ContextStaffID)))
	return c.JSON(http.StatusOK, b)
}

// InvalidateAvailability handles DELETE /v1/admin/cache/availability.
func (h *BookingHandler) InvalidateAvailability(c echo.Context) error {
	if err := h.Availability.InvalidateAll(c.Request().Context()); err != nil {
		return respond(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func bookingID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
