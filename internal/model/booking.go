package model

import "time"

// BookingStatus mirrors the bookings.status ENUM.
type BookingStatus string

const (
	BookingNew       BookingStatus = "New"
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingClosed    BookingStatus = "Closed"
)

// MealPlan mirrors the bookings.meal_plan ENUM.
type MealPlan string

const (
	MealRoomOnly        MealPlan = "RoomOnly"
	MealBedAndBreakfast MealPlan = "BedAndBreakfast"
	MealHalfBoard       MealPlan = "HalfBoard"
	MealFullBoard       MealPlan = "FullBoard"
	MealAllInclusive    MealPlan = "AllInclusive"
	MealSpecial         MealPlan = "Special"
)

// Booking records a guest's stay in one room.  Rows are never hard-deleted;
// cancellation and deletion only set timestamps.
//
// Fields:
//  ID              – primary key identifier.
//  GuestID         – guest who owns the booking.
//  RoomID          – booked room.
//  Guests          – party size.
//  CheckIn         – first night (inclusive).
//  CheckOut        – departure day (exclusive).
//  BasePrice       – room supplement plus season price.
//  TaxesPercentage – flat tax rate applied at booking time.
//  TaxesValue      – tax amount, rounded up to a whole unit.
//  TotalPrice      – BasePrice + TaxesValue.
//  Status          – lifecycle state.
//  MealPlan        – selected board.
//  Extras          – snapshot of the extras chosen at booking time.
//  Locator         – short guest-facing reference.
//  PIN             – 4-digit secret paired with Locator.
//  UUID            – client idempotency token.
//  ReservedAt      – creation timestamp.
//  CancelledAt     – set when the booking is cancelled.
//  DeletedAt       – soft-delete timestamp.
type Booking struct {
	ID              uint64        `json:"id"`
	GuestID         uint64        `json:"id_guest"`
	RoomID          uint64        `json:"id_room"`
	Guests          int           `json:"guests"`
	CheckIn         time.Time     `json:"check_in"`
	CheckOut        time.Time     `json:"check_out"`
	BasePrice       float64       `json:"base_price"`
	TaxesPercentage float64       `json:"taxes_percentage"`
	TaxesValue      float64       `json:"taxes_value"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	MealPlan        MealPlan      `json:"meal_plan"`
	Extras          []Extra       `json:"extras"`
	Locator         string        `json:"locator"`
	PIN             string        `json:"pin"`
	UUID            string        `json:"uuid"`
	ReservedAt      time.Time     `json:"reserved_at"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	DeletedAt       *time.Time    `json:"deleted_at,omitempty"`
}
