package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// GuestRepo persists guests.  Email is the natural key.
type GuestRepo struct {
	db *sql.DB
}

func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

const guestColumns = `id, name, surname, gender, email, passport, birthdate, address1, address2,
	locality, postcode, province, country, home_phone, mobile_phone, deleted_at`

// UpsertTx inserts the guest or, when the email already exists, merges the
// non-empty submitted fields into the stored row and clears deleted_at.  On
// return g holds the full stored row.
func (r *GuestRepo) UpsertTx(ctx context.Context, q database.Querier, g *model.Guest) error {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	const stmt = `INSERT INTO guests (name, surname, gender, email, passport, birthdate, address1, address2,
			locality, postcode, province, country, home_phone, mobile_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			id           = LAST_INSERT_ID(id),
			name         = COALESCE(NULLIF(VALUES(name), ''), name),
			surname      = COALESCE(NULLIF(VALUES(surname), ''), surname),
			gender       = COALESCE(NULLIF(VALUES(gender), ''), gender),
			passport     = COALESCE(NULLIF(VALUES(passport), ''), passport),
			birthdate    = COALESCE(VALUES(birthdate), birthdate),
			address1     = COALESCE(NULLIF(VALUES(address1), ''), address1),
			address2     = COALESCE(NULLIF(VALUES(address2), ''), address2),
			locality     = COALESCE(NULLIF(VALUES(locality), ''), locality),
			postcode     = COALESCE(NULLIF(VALUES(postcode), ''), postcode),
			province     = COALESCE(NULLIF(VALUES(province), ''), province),
			country      = COALESCE(NULLIF(VALUES(country), ''), country),
			home_phone   = COALESCE(NULLIF(VALUES(home_phone), ''), home_phone),
			mobile_phone = COALESCE(NULLIF(VALUES(mobile_phone), ''), mobile_phone),
			deleted_at   = NULL`
	var birth any
	if g.Birthdate != nil {
		birth = dateArg(*g.Birthdate)
	}
	res, err := q.ExecContext(ctx, stmt,
		g.Name, g.Surname, g.Gender, g.Email, g.Passport, birth, g.Address1, g.Address2,
		g.Locality, g.Postcode, g.Province, g.Country, g.HomePhone, g.MobilePhone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.get(ctx, q, uint64(id))
	if err != nil {
		return err
	}
	*g = *stored
	return nil
}

// GetByID returns a guest by id.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	return r.get(ctx, r.db, id)
}

func (r *GuestRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.Guest, error) {
	var g model.Guest
	var birth, deleted sql.NullTime
	err := q.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = ?`, id).Scan(
		&g.ID, &g.Name, &g.Surname, &g.Gender, &g.Email, &g.Passport, &birth, &g.Address1, &g.Address2,
		&g.Locality, &g.Postcode, &g.Province, &g.Country, &g.HomePhone, &g.MobilePhone, &deleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	if birth.Valid {
		t := birth.Time
		g.Birthdate = &t
	}
	if deleted.Valid {
		t := deleted.Time
		g.DeletedAt = &t
	}
	return &g, nil
}
