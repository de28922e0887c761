package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func mustDay(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestKeyFormat(t *testing.T) {
	st := model.Stay{CheckIn: mustDay("2024-06-28"), CheckOut: mustDay("2024-07-03"), Guests: 2}
	assert.Equal(t, "check_in:2024-06-28|check_out:2024-07-03|guests:2|rooms:[]", Key(st))

	st.RoomIDs = []uint64{4, 1}
	assert.Equal(t, "check_in:2024-06-28|check_out:2024-07-03|guests:2|rooms:[1,4]", Key(st))
}

func TestKeyTreatsRoomsAsSet(t *testing.T) {
	a := model.Stay{CheckIn: mustDay("2024-06-28"), CheckOut: mustDay("2024-07-03"), Guests: 2, RoomIDs: []uint64{3, 1, 2}}
	b := a
	b.RoomIDs = []uint64{1, 2, 3, 3, 1}
	assert.Equal(t, Key(a), Key(b))
	assert.Equal(t, []uint64{3, 1, 2}, a.RoomIDs, "key building must not reorder the caller's slice")

	c := a
	c.Guests = 3
	assert.NotEqual(t, Key(a), Key(c))
}

func TestSearchCacheHitThenInvalidate(t *testing.T) {
	_, rdb := newRedis(t)
	sc := NewSearchCache(NewCollection(rdb, "hotel", AvailabilityCollection, 5*time.Minute))
	ctx := context.Background()
	key := Key(model.Stay{CheckIn: mustDay("2024-06-28"), CheckOut: mustDay("2024-07-03"), Guests: 2})
	offers := []model.Offer{{RoomID: 1, RoomNumber: "101", Nights: 5, BasePrice: 740, TaxesPercentage: 10, TaxesValue: 74, TotalPrice: 814}}

	written, err := sc.Set(ctx, key, offers)
	require.NoError(t, err)

	got1, e1, found, err := sc.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	got2, e2, found, err := sc.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, offers, got1)
	assert.Equal(t, got1, got2)
	assert.Equal(t, written.Hash, e1.Hash)
	assert.Equal(t, e1.Hash, e2.Hash)
	assert.Equal(t, []byte(e1.Value), []byte(e2.Value))

	require.NoError(t, sc.InvalidateAll(ctx))
	_, _, found, err = sc.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSearchCacheStoresEmptyList(t *testing.T) {
	_, rdb := newRedis(t)
	sc := NewSearchCache(NewCollection(rdb, "", AvailabilityCollection, time.Minute))
	ctx := context.Background()

	_, err := sc.Set(ctx, "k", nil)
	require.NoError(t, err)
	got, e, found, err := sc.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, got)
	assert.Equal(t, "[]", string(e.Value))
}
