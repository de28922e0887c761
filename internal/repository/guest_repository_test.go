package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

var guestCols = []string{"id", "name", "surname", "gender", "email", "passport", "birthdate", "address1",
	"address2", "locality", "postcode", "province", "country", "home_phone", "mobile_phone", "deleted_at"}

func TestGuestUpsertMergesAndReloads(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT INTO guests .*ON DUPLICATE KEY UPDATE.*LAST_INSERT_ID\(id\).*deleted_at\s+= NULL`).
		WithArgs("Ana", "Diaz", "", "ana@example.com", "", nil, "", "", "", "", "", "ES", "", "").
		WillReturnResult(sqlmock.NewResult(7, 2))
	mock.ExpectQuery(`FROM guests WHERE id = \?`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows(guestCols).AddRow(
			7, "Ana", "Diaz", "F", "ana@example.com", "X123", nil, "Main St 1", "", "Madrid", "28001",
			"Madrid", "ES", "", "600000000", nil))

	g := &model.Guest{Name: "Ana", Surname: "Diaz", Email: "  Ana@Example.com ", Country: "ES"}
	require.NoError(t, NewGuestRepo(db).UpsertTx(context.Background(), db, g))

	assert.Equal(t, uint64(7), g.ID)
	assert.Equal(t, "X123", g.Passport, "stored fields survive an upsert with empty values")
	assert.Equal(t, "600000000", g.MobilePhone)
	assert.Nil(t, g.DeletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtraList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM extras WHERE deleted_at IS NULL ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "description", "price"}).
			AddRow(1, "PARK", "Parking", "Underground parking", 12.0).
			AddRow(2, "LATE", "Late checkout", "Until 14:00", 20.0))

	got, err := NewExtraRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "LATE", got[1].Code)
}

func TestStaffGetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM logins WHERE username=\?`).WithArgs("frontdesk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "is_admin", "created_at"}).
			AddRow(1, "frontdesk", "fd@example.com", "$2a$hash", true, day("2024-01-01")))

	s, err := NewStaffRepo(db).GetByUsername(context.Background(), " FrontDesk ")
	require.NoError(t, err)
	assert.Equal(t, "admin", s.Role())
}
