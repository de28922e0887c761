// Package handler exposes the HTTP endpoints.  Handlers parse and validate
// transport input, call the services and map their errors to status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// errorBody is the payload of every non-2xx response.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorBody{Error: code, Message: msg})
}

func validationFailed(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, errorBody{
		Error:   "validation_error",
		Message: utils.FormatValidationErrors(fields),
		Fields:  fields,
	})
}

// respond maps a service or repository error to its HTTP status.  Unknown
// errors are logged and reported as 500 without internal detail.
func respond(c echo.Context, log *zap.Logger, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return validationFailed(c, ve.Fields)
	case errors.Is(err, service.ErrRoomUnavailable):
		return writeError(c, http.StatusConflict, "room_unavailable", err.Error())
	case errors.Is(err, service.ErrDuplicateBooking):
		return writeError(c, http.StatusConflict, "duplicate_booking", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, repository.ErrBookingNotFound), errors.Is(err, repository.ErrRoomNotFound):
		return writeError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrConflict):
		return writeError(c, http.StatusConflict, "conflict", "booking is already cancelled")
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return writeError(c, http.StatusInternalServerError, "internal_error", "the request could not be completed")
}
