package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// SeasonRepo loads pricing seasons.
type SeasonRepo struct {
	db *sql.DB
}

func NewSeasonRepo(db *sql.DB) *SeasonRepo { return &SeasonRepo{db: db} }

// PublishedOverlapping returns published seasons whose [date_from, date_to)
// overlaps [from, to), ordered by date_from.
func (r *SeasonRepo) PublishedOverlapping(ctx context.Context, q database.Querier, from, to time.Time) ([]model.Season, error) {
	const query = `SELECT id, date_from, date_to, base_price, bed_price, published
		FROM seasons
		WHERE published = TRUE AND date_from < ? AND date_to > ?
		ORDER BY date_from`
	rows, err := q.QueryContext(ctx, query, dateArg(to), dateArg(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Season
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.DateFrom, &s.DateTo, &s.BasePrice, &s.BedPrice, &s.Published); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
