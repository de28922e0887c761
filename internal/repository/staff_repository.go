package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// StaffRepo reads back-office accounts from the `logins` table.
type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

// GetByUsername fetches an account by normalized username.
func (r *StaffRepo) GetByUsername(ctx context.Context, username string) (model.Staff, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var s model.Staff
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password,is_admin,created_at FROM logins WHERE username=? LIMIT 1",
		username).Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.IsAdmin, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrStaffNotFound
	}
	return s, err
}
