package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ExtraRepo reads the extras catalog.
type ExtraRepo struct {
	db *sql.DB
}

func NewExtraRepo(db *sql.DB) *ExtraRepo { return &ExtraRepo{db: db} }

// List returns every non-deleted extra ordered by id.
func (r *ExtraRepo) List(ctx context.Context) ([]model.Extra, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, description, price FROM extras WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Extra{}
	for rows.Next() {
		var e model.Extra
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Description, &e.Price); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
