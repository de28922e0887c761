package pricing

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomSource lists rooms free for a stay.  *repository.RoomRepo satisfies it.
type RoomSource interface {
	AvailableRooms(ctx context.Context, q database.Querier, f repository.RoomFilter) ([]model.Room, error)
}

// SeasonSource lists published seasons overlapping a date range.
// *repository.SeasonRepo satisfies it.
type SeasonSource interface {
	PublishedOverlapping(ctx context.Context, q database.Querier, from, to time.Time) ([]model.Season, error)
}

// Engine prices every available room for a stay.
type Engine struct {
	rooms    RoomSource
	seasons  SeasonSource
	taxesPct float64
	log      *zap.Logger
}

// NewEngine wires an Engine.  taxesPct is a flat percentage (10 means 10%).
func NewEngine(rooms RoomSource, seasons SeasonSource, taxesPct float64, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{rooms: rooms, seasons: seasons, taxesPct: taxesPct, log: log.With(zap.String("service", "pricing"))}
}

// TaxesPercentage returns the configured tax rate.
func (e *Engine) TaxesPercentage() float64 { return e.taxesPct }

// Search returns the priced offers for stay, cheapest first.  q may be a
// *sql.Tx so that a confirmation can re-price inside its own transaction.
// The stay must already be validated (CheckIn before CheckOut, Guests > 0).
func (e *Engine) Search(ctx context.Context, q database.Querier, stay model.Stay) ([]model.Offer, error) {
	rooms, err := e.rooms.AvailableRooms(ctx, q, repository.RoomFilter{
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		Guests:   stay.Guests,
		RoomIDs:  stay.RoomIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("available rooms: %w", err)
	}
	if len(rooms) == 0 {
		return []model.Offer{}, nil
	}

	seasons, err := e.seasons.PublishedOverlapping(ctx, q, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("published seasons: %w", err)
	}
	// The season price depends only on dates and party size, so it is shared
	// by every room of the search.
	nights, seasonPrice := Aggregate(stay.CheckIn, stay.CheckOut, stay.Guests, seasons)
	if nights == 0 {
		e.log.Debug("no season covers stay",
			zap.String("check_in", stay.CheckIn.Format(model.DateLayout)),
			zap.String("check_out", stay.CheckOut.Format(model.DateLayout)))
		return []model.Offer{}, nil
	}

	offers := make([]model.Offer, 0, len(rooms))
	for _, r := range rooms {
		o := model.NewOffer(r)
		o.Nights = nights
		o.BasePrice = r.Supplement*float64(nights) + seasonPrice
		o.TaxesPercentage = e.taxesPct
		o.TaxesValue = Taxes(o.BasePrice, e.taxesPct)
		o.TotalPrice = o.BasePrice + o.TaxesValue
		offers = append(offers, o)
	}
	SortOffers(offers)
	return offers, nil
}

// Taxes applies pct to base and rounds up to the next whole unit.  The
// product is first cut to micro-units so binary float noise such as
// 15.000000000000002 does not bump an exact amount.
func Taxes(base, pct float64) float64 {
	raw := base * pct / 100
	return math.Ceil(math.Round(raw*1e6) / 1e6)
}

// SortOffers orders offers by total price, then accommodates, single beds,
// double beds, floor and room number, all ascending.
func SortOffers(offers []model.Offer) {
	slices.SortStableFunc(offers, func(a, b model.Offer) int {
		return cmp.Or(
			cmp.Compare(a.TotalPrice, b.TotalPrice),
			cmp.Compare(a.Accommodates, b.Accommodates),
			cmp.Compare(a.SglBeds, b.SglBeds),
			cmp.Compare(a.DblBeds, b.DblBeds),
			cmp.Compare(a.FloorNo, b.FloorNo),
			cmp.Compare(a.RoomNo, b.RoomNo),
		)
	})
}
