package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Collection names.
const (
	AvailabilityCollection = "availability"
	ExtrasCollection       = "extras"
	RoomsCollection        = "rooms"
)

// SearchCache memoizes availability searches.
type SearchCache struct {
	col *Collection
}

func NewSearchCache(col *Collection) *SearchCache { return &SearchCache{col: col} }

// Key serializes every search parameter.  The room filter is treated as a
// set: order and duplicates do not change the key.
func Key(stay model.Stay) string {
	ids := slices.Clone(stay.RoomIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return fmt.Sprintf("check_in:%s|check_out:%s|guests:%d|rooms:[%s]",
		stay.CheckIn.Format(model.DateLayout), stay.CheckOut.Format(model.DateLayout),
		stay.Guests, strings.Join(parts, ","))
}

// Get returns the cached offers for key.  entry.Value holds the exact bytes
// that were stored.
func (s *SearchCache) Get(ctx context.Context, key string) ([]model.Offer, Entry, bool, error) {
	e, ok, err := s.col.Get(ctx, key)
	if err != nil || !ok {
		return nil, Entry{}, false, err
	}
	var offers []model.Offer
	if err := json.Unmarshal(e.Value, &offers); err != nil {
		return nil, Entry{}, false, nil
	}
	return offers, e, true, nil
}

// Set stores offers under key and returns the new metadata.
func (s *SearchCache) Set(ctx context.Context, key string, offers []model.Offer) (Entry, error) {
	if offers == nil {
		offers = []model.Offer{}
	}
	raw, err := json.Marshal(offers)
	if err != nil {
		return Entry{}, fmt.Errorf("encode offers: %w", err)
	}
	return s.col.Set(ctx, key, raw)
}

// InvalidateAll forgets every cached search.
func (s *SearchCache) InvalidateAll(ctx context.Context) error { return s.col.InvalidateAll(ctx) }

// Enabled reports whether searches are actually cached.
func (s *SearchCache) Enabled() bool { return s.col.Enabled() }
