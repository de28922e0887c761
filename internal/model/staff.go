package model

import "time"

// Staff is a back-office account from the `logins` table.  Only staff may
// call the admin endpoints.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  Email        – contact email.
//  PasswordHash – bcrypt hashed password.
//  IsAdmin      – grants the "admin" role in issued tokens.
//  CreatedAt    – timestamp of creation.
type Staff struct {
	ID           uint64    // logins.id
	Username     string    // logins.username
	Email        string    // logins.email
	PasswordHash string    // logins.password
	IsAdmin      bool      // logins.is_admin
	CreatedAt    time.Time // logins.created_at
}

// Role returns the JWT role claim for the account.
func (s Staff) Role() string {
	if s.IsAdmin {
		return "admin"
	}
	return "staff"
}
