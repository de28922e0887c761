package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// StaffLogin is implemented by *service.Auth.
type StaffLogin interface {
	Login(ctx context.Context, username, password string) (model.Staff, utils.AccessToken, error)
}

// AuthHandler issues staff tokens.
type AuthHandler struct {
	Auth StaffLogin
	Log  *zap.Logger
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type staffPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResp struct {
	Staff  staffPart         `json:"staff"`
	Access utils.AccessToken `json:"access"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid body")
	}
	s, tok, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Staff:  staffPart{ID: s.ID, Username: s.Username, Role: s.Role()},
		Access: tok,
	})
}
