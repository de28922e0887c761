// Package queue defines the booking events exchanged over RabbitMQ and the
// publisher and consumer that move them.
package queue

// BookingCreatedEvent is published after a booking commits.  It carries
// enough for a notifier to greet the guest without reading the database.
type BookingCreatedEvent struct {
	BookingID  uint64  `json:"booking_id"`
	Locator    string  `json:"locator"`
	GuestID    uint64  `json:"guest_id"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	RoomID     uint64  `json:"room_id"`
	RoomNumber string  `json:"room_number"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Guests     int     `json:"guests"`
	MealPlan   string  `json:"meal_plan"`
	TotalPrice float64 `json:"total_price"`
	ReservedAt string  `json:"reserved_at"`
}

// BookingCancelledEvent is published when staff cancel a booking.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	Locator     string `json:"locator"`
	RoomID      uint64 `json:"room_id"`
	CancelledAt string `json:"cancelled_at"`
}
