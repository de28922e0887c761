package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func d(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func season(from, to string, base, bed float64) model.Season {
	return model.Season{DateFrom: d(from), DateTo: d(to), BasePrice: base, BedPrice: bed, Published: true}
}

func TestAggregateSingleSeasonCoversStay(t *testing.T) {
	seasons := []model.Season{season("2024-01-01", "2024-12-31", 80, 5)}
	cases := []struct {
		in, out string
		guests  int
	}{
		{"2024-03-01", "2024-03-02", 1},
		{"2024-03-01", "2024-03-08", 2},
		{"2024-02-27", "2024-03-02", 3},
		{"2024-01-01", "2024-12-31", 4},
	}
	for _, tc := range cases {
		nights, price := Aggregate(d(tc.in), d(tc.out), tc.guests, seasons)
		span := model.DaysBetween(d(tc.in), d(tc.out))
		assert.Equal(t, span, nights, "%s..%s", tc.in, tc.out)
		assert.Equal(t, float64(span)*(80+5*float64(tc.guests)), price, "%s..%s", tc.in, tc.out)
	}
}

func TestAggregateTwoSeasonsPartition(t *testing.T) {
	june := season("2024-06-01", "2024-07-01", 100, 10)
	july := season("2024-07-01", "2024-08-01", 150, 20)

	nights, price := Aggregate(d("2024-06-28"), d("2024-07-03"), 2, []model.Season{june, july})
	assert.Equal(t, 5, nights)
	assert.Equal(t, 740.0, price)

	n1, p1 := Aggregate(d("2024-06-28"), d("2024-07-03"), 2, []model.Season{june})
	n2, p2 := Aggregate(d("2024-06-28"), d("2024-07-03"), 2, []model.Season{july})
	assert.Equal(t, 3, n1)
	assert.Equal(t, 2, n2)
	assert.Equal(t, nights, n1+n2)
	assert.Equal(t, price, p1+p2)
}

func TestAggregateNoCoverage(t *testing.T) {
	seasons := []model.Season{season("2024-06-01", "2024-07-01", 100, 10)}

	nights, price := Aggregate(d("2024-07-01"), d("2024-07-05"), 2, seasons)
	assert.Zero(t, nights)
	assert.Zero(t, price)

	nights, price = Aggregate(d("2024-06-01"), d("2024-06-03"), 2, nil)
	assert.Zero(t, nights)
	assert.Zero(t, price)
}

func TestAggregateIgnoresUnpublished(t *testing.T) {
	draft := season("2024-06-01", "2024-07-01", 999, 99)
	draft.Published = false
	nights, price := Aggregate(d("2024-06-10"), d("2024-06-12"), 1, []model.Season{draft})
	assert.Zero(t, nights)
	assert.Zero(t, price)
}

func TestAggregatePartialCoverage(t *testing.T) {
	// Only the first two nights are priced; the rest has no season.
	seasons := []model.Season{season("2024-06-01", "2024-06-12", 100, 0)}
	nights, price := Aggregate(d("2024-06-10"), d("2024-06-15"), 1, seasons)
	assert.Equal(t, 2, nights)
	assert.Equal(t, 200.0, price)
}
