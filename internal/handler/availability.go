package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// AvailabilitySearcher is implemented by *service.Availability.
type AvailabilitySearcher interface {
	Search(ctx context.Context, stay model.Stay) (service.SearchResult, error)
}

// BookingConfirmer is implemented by *service.Confirmer.
type BookingConfirmer interface {
	Confirm(ctx context.Context, req service.ConfirmRequest) (*service.Confirmation, error)
}

// AvailabilityHandler serves /v1/availability.
type AvailabilityHandler struct {
	Search       AvailabilitySearcher
	Confirmer    BookingConfirmer
	CacheControl string
	Log          *zap.Logger
}

type searchQuery struct {
	CheckIn  string   `query:"check_in" json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string   `query:"check_out" json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int      `query:"guests" json:"guests" validate:"min=1,max=20"`
	Rooms    []uint64 `query:"rooms" json:"rooms" validate:"omitempty,dive,min=1"`
}

// SearchRooms handles GET /v1/availability/search.
//
// 200 returns the ordered offers with cache validators, 204 means nothing is
// available and 400 reports unusable parameters.
func (h *AvailabilityHandler) SearchRooms(c echo.Context) error {
	q := searchQuery{Guests: 1}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "malformed query parameters")
	}
	if errs := utils.ValidateStruct(q); errs != nil {
		return validationFailed(c, errs)
	}
	checkIn, _ := time.Parse(model.DateLayout, q.CheckIn)
	checkOut, _ := time.Parse(model.DateLayout, q.CheckOut)
	if !checkIn.Before(checkOut) {
		return validationFailed(c, map[string]string{"check_out": "Must be after check_in"})
	}

	stay := model.Stay{CheckIn: checkIn, CheckOut: checkOut, Guests: q.Guests, RoomIDs: q.Rooms}
	res, err := h.Search.Search(c.Request().Context(), stay)
	if err != nil {
		return respond(c, h.Log, err)
	}
	if len(res.Offers) == 0 {
		c.Response().Header().Set("Cache-Control", "no-cache")
		return c.NoContent(http.StatusNoContent)
	}
	setCacheHeaders(c, h.CacheControl, res.Entry, res.Hit)
	return c.JSON(http.StatusOK, res.Offers)
}

// Confirm handles POST /v1/availability/confirm.
func (h *AvailabilityHandler) Confirm(c echo.Context) error {
	var req service.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid JSON body")
	}
	conf, err := h.Confirmer.Confirm(c.Request().Context(), req)
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, conf)
}
