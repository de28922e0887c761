package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo persists bookings.  Bookings are never hard-deleted.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, id_guest, id_room, guests, check_in, check_out, base_price, taxes_percentage,
	taxes_value, total_price, status, meal_plan, extras, locator, pin, uuid, reserved_at, cancelled_at, deleted_at`

// CreateTx inserts b within the caller's transaction and fills in b.ID.
// Unique-key violations come back as *DuplicateError.
func (r *BookingRepo) CreateTx(ctx context.Context, q database.Querier, b *model.Booking) error {
	extras, err := json.Marshal(b.Extras)
	if err != nil {
		return fmt.Errorf("encode extras: %w", err)
	}
	if b.ReservedAt.IsZero() {
		b.ReservedAt = time.Now().UTC().Truncate(time.Second)
	}
	const stmt = `INSERT INTO bookings (id_guest, id_room, guests, check_in, check_out, base_price,
			taxes_percentage, taxes_value, total_price, status, meal_plan, extras, locator, pin, uuid, reserved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, stmt,
		b.GuestID, b.RoomID, b.Guests, dateArg(b.CheckIn), dateArg(b.CheckOut), b.BasePrice,
		b.TaxesPercentage, b.TaxesValue, b.TotalPrice, string(b.Status), string(b.MealPlan), extras,
		b.Locator, b.PIN, b.UUID, b.ReservedAt)
	if err != nil {
		if key, ok := database.DuplicateKey(err); ok {
			return &DuplicateError{Key: key, Err: err}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// UUIDTakenTx reports whether a booking, deleted or not, already carries the
// idempotency token.
func (r *BookingRepo) UUIDTakenTx(ctx context.Context, q database.Querier, token string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE uuid = ? LIMIT 1`, token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID returns a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
}

// GetByLocator returns the non-deleted booking matching both locator and pin.
func (r *BookingRepo) GetByLocator(ctx context.Context, locator, pin string) (*model.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE locator = ? AND pin = ? AND deleted_at IS NULL`, locator, pin)
}

// Cancel marks the booking as cancelled.  It returns ErrConflict when the
// booking was already cancelled and ErrBookingNotFound when it does not exist.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET cancelled_at = ?, status = ? WHERE id = ? AND cancelled_at IS NULL AND deleted_at IS NULL`,
		at.UTC(), string(model.BookingCancelled), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ? AND deleted_at IS NULL`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

func (r *BookingRepo) getOne(ctx context.Context, query string, args ...any) (*model.Booking, error) {
	var (
		b                  model.Booking
		status, mealPlan   string
		extras             []byte
		cancelled, deleted sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.GuestID, &b.RoomID, &b.Guests, &b.CheckIn, &b.CheckOut, &b.BasePrice, &b.TaxesPercentage,
		&b.TaxesValue, &b.TotalPrice, &status, &mealPlan, &extras, &b.Locator, &b.PIN, &b.UUID,
		&b.ReservedAt, &cancelled, &deleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	b.MealPlan = model.MealPlan(mealPlan)
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &b.Extras); err != nil {
			return nil, fmt.Errorf("decode extras: %w", err)
		}
	}
	if cancelled.Valid {
		t := cancelled.Time
		b.CancelledAt = &t
	}
	if deleted.Valid {
		t := deleted.Time
		b.DeletedAt = &t
	}
	return &b, nil
}
