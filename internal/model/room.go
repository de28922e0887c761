package model

import (
	"fmt"
	"time"
)

// Room represents a row in the `rooms` table.  Rooms are read-only to the
// availability engine; they only become "occupied" through bookings.
//
// Fields:
//  ID         – primary key identifier.
//  FloorNo    – floor the room is on.
//  RoomNo     – room position on the floor.
//  Name       – display name.
//  SglBeds    – number of single beds.
//  DblBeds    – number of double beds.
//  Supplement – per-night surcharge added to the season price.
//  Code       – short unique code used by staff.
//  DeletedAt  – soft-delete timestamp (nil while active).
type Room struct {
	ID         uint64     `json:"id"`
	FloorNo    int        `json:"floor_no"`
	RoomNo     int        `json:"room_no"`
	Name       string     `json:"name"`
	SglBeds    int        `json:"sgl_beds"`
	DblBeds    int        `json:"dbl_beds"`
	Supplement float64    `json:"supplement"`
	Code       string     `json:"code"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Accommodates is the number of guests the room can sleep.
func (r Room) Accommodates() int { return r.SglBeds + 2*r.DblBeds }

// Number is the guest-facing room number, e.g. floor 1 room 5 -> "105".
func (r Room) Number() string { return fmt.Sprintf("%d%02d", r.FloorNo, r.RoomNo) }
