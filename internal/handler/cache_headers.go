package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/cache"
)

// setCacheHeaders turns a cache entry into HTTP validators.  A zero entry
// means the response was not cached and must not be reused.
func setCacheHeaders(c echo.Context, cacheControl string, e cache.Entry, hit bool) {
	h := c.Response().Header()
	h.Set("Content-Language", "en")
	if e.Hash == "" {
		h.Set("Cache-Control", "no-cache")
		return
	}
	h.Set("Cache-Control", cacheControl)
	h.Set("Last-Modified", e.LastWrite.UTC().Format(http.TimeFormat))
	h.Set("ETag", `"`+e.Hash+`"`)
	if hit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
}
