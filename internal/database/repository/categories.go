package repository

import (
	"context"
	"database/sql"
)

// CategoryRepo handles service categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Upsert(ctx context.Context, c Category) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO categories(id, name, available_count, color, sort_order)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 available_count=excluded.available_count,
	 color=excluded.color,
	 sort_order=excluded.sort_order;
	`, c.ID, c.Name, c.AvailableCount, c.Color, c.SortOrder)
	return err
}

func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, available_count, color, sort_order FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.AvailableCount, &c.Color, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns nil when no category matches.
func (r *CategoryRepo) Get(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name, available_count, color, sort_order FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.AvailableCount, &c.Color, &c.SortOrder)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
