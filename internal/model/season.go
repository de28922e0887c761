package model

import "time"

// Season is a pricing record covering [DateFrom, DateTo).  Published seasons
// never overlap; the storage layer enforces it.
type Season struct {
	ID        uint64    `json:"id"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	BasePrice float64   `json:"base_price"`
	BedPrice  float64   `json:"bed_price"`
	Published bool      `json:"published"`
}
