package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

type extrasCatalog interface {
	ListCached(ctx context.Context) ([]model.Extra, cache.Entry, error)
}

type roomCatalog interface {
	Get(ctx context.Context, id uint64) (*model.Room, cache.Entry, error)
}

// CatalogHandler serves the read-only hotel catalog.
type CatalogHandler struct {
	Extras       extrasCatalog
	Rooms        roomCatalog
	CacheControl string
	Log          *zap.Logger
}

func NewCatalogHandler(extras extrasCatalog, rooms roomCatalog, cacheControl string, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Extras: extras, Rooms: rooms, CacheControl: cacheControl, Log: log}
}

// ListExtras handles GET /v1/extras.
func (h *CatalogHandler) ListExtras(c echo.Context) error {
	extras, e, err := h.Extras.ListCached(c.Request().Context())
	if err != nil {
		return respond(c, h.Log, err)
	}
	if extras == nil {
		extras = []model.Extra{}
	}
	setCacheHeaders(c, h.CacheControl, e, false)
	return c.JSON(http.StatusOK, extras)
}

// GetRoom handles GET /v1/rooms/:id.
func (h *CatalogHandler) GetRoom(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid room id")
	}
	r, e, err := h.Rooms.Get(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.Log, err)
	}
	setCacheHeaders(c, h.CacheControl, e, false)
	return c.JSON(http.StatusOK, r)
}
