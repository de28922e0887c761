// Package pricing turns published seasons and available rooms into ordered,
// taxed offers for a stay.
package pricing

import (
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Aggregate sums the prorated contribution of every published season that
// overlaps [checkIn, checkOut).  Each season contributes its clipped night
// count times (base_price + bed_price*guests).  Nothing is rounded here.
//
// When no season covers any night, both results are zero and the caller must
// treat the stay as unpriceable.  checkIn must be before checkOut.
func Aggregate(checkIn, checkOut time.Time, guests int, seasons []model.Season) (nights int, price float64) {
	for _, s := range seasons {
		if !s.Published || !model.Overlaps(s.DateFrom, s.DateTo, checkIn, checkOut) {
			continue
		}
		from := later(checkIn, s.DateFrom)
		to := earlier(checkOut, s.DateTo)
		n := model.DaysBetween(from, to)
		if n <= 0 {
			continue
		}
		nights += n
		price += float64(n) * (s.BasePrice + s.BedPrice*float64(guests))
	}
	return nights, price
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
