package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health reports that the process is serving.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyHandler checks the backing stores.
type ReadyHandler struct {
	DB    Pinger
	Redis *redis.Client
}

// Ready answers 503 when MySQL is unreachable.  Redis is optional, so its
// state is reported but never fails the check.
func (h *ReadyHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	out := echo.Map{"database": "ok", "cache": "disabled"}
	status := http.StatusOK
	if err := h.DB.PingContext(ctx); err != nil {
		out["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.Redis != nil {
		out["cache"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			out["cache"] = err.Error()
		}
	}
	return c.JSON(status, out)
}
