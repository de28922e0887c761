package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo reads rooms and answers availability questions.  Rooms are
// read-only from this service's point of view.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so callers can start transactions.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// RoomFilter narrows an availability query.  An empty RoomIDs slice means
// no restriction.
type RoomFilter struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	RoomIDs  []uint64
}

const roomColumns = `r.id, r.floor_no, r.room_no, r.name, r.sgl_beds, r.dbl_beds, r.supplement, r.code, r.deleted_at`

func scanRoom(sc interface{ Scan(...any) error }, rm *model.Room) error {
	var deleted sql.NullTime
	if err := sc.Scan(&rm.ID, &rm.FloorNo, &rm.RoomNo, &rm.Name, &rm.SglBeds, &rm.DblBeds,
		&rm.Supplement, &rm.Code, &deleted); err != nil {
		return err
	}
	if deleted.Valid {
		t := deleted.Time
		rm.DeletedAt = &t
	}
	return nil
}

// GetByID returns a single room, including soft-deleted ones.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms r WHERE r.id = ?`, id), &rm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// LockTx takes an exclusive row lock on the room for the remainder of tx.
// Confirmations for the same room queue behind each other here, which keeps
// the availability re-check and the booking insert free of overlap races.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? AND deleted_at IS NULL FOR UPDATE`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	return err
}

// AvailableRooms returns the non-deleted rooms that sleep at least f.Guests
// and have no non-cancelled booking overlapping [f.CheckIn, f.CheckOut).
// Bookings that end on the check-in day or start on the check-out day do not
// block the room.
func (r *RoomRepo) AvailableRooms(ctx context.Context, q database.Querier, f RoomFilter) ([]model.Room, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.deleted_at IS NULL
		  AND r.sgl_beds + 2 * r.dbl_beds >= ?
		  AND NOT EXISTS (
		      SELECT 1 FROM bookings b
		      WHERE b.id_room = r.id
		        AND b.cancelled_at IS NULL
		        AND b.check_in < ?
		        AND b.check_out > ?
		  )`)
	args := []any{f.Guests, dateArg(f.CheckOut), dateArg(f.CheckIn)}
	if len(f.RoomIDs) > 0 {
		sb.WriteString(` AND r.id IN (?` + strings.Repeat(",?", len(f.RoomIDs)-1) + `)`)
		for _, id := range f.RoomIDs {
			args = append(args, id)
		}
	}
	sb.WriteString(` ORDER BY r.id`)

	rows, err := q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var rm model.Room
		if err := scanRoom(rows, &rm); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// dateArg renders a calendar day for DATE comparisons.
func dateArg(t time.Time) string { return t.UTC().Format(model.DateLayout) }
