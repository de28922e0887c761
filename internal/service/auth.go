package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// StaffFinder loads back-office accounts.
type StaffFinder interface {
	GetByUsername(ctx context.Context, username string) (model.Staff, error)
}

// Auth issues access tokens to staff.
type Auth struct {
	staff  StaffFinder
	secret string
	ttlMin int
	log    *zap.Logger
}

func NewAuth(staff StaffFinder, secret string, ttlMin int, log *zap.Logger) *Auth {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{staff: staff, secret: secret, ttlMin: ttlMin, log: log.With(zap.String("service", "auth"))}
}

// Login verifies the credentials and returns a signed token.  Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, username, password string) (model.Staff, utils.AccessToken, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return model.Staff{}, utils.AccessToken{}, invalid("username", "Username and password are required")
	}
	s, err := a.staff.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrStaffNotFound) {
		return model.Staff{}, utils.AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Staff{}, utils.AccessToken{}, err
	}
	if !utils.CheckStaffPassword(s.PasswordHash, password) {
		a.log.Info("login rejected", zap.String("username", username))
		return model.Staff{}, utils.AccessToken{}, ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(a.secret, s.ID, s.Role(), a.ttlMin)
	if err != nil {
		return model.Staff{}, utils.AccessToken{}, err
	}
	return s, tok, nil
}
