package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ProviderRepo handles service providers.
type ProviderRepo struct {
	db *sql.DB
}

func NewProviderRepo(db *sql.DB) *ProviderRepo {
	return &ProviderRepo{db: db}
}

const providerColumns = `id, category_id, name, title, rating, description, jobs_completed, hourly_rate_cents, elite`

func (r *ProviderRepo) Upsert(ctx context.Context, p Provider) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO providers(`+providerColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 category_id=excluded.category_id,
	 name=excluded.name,
	 title=excluded.title,
	 rating=excluded.rating,
	 description=excluded.description,
	 jobs_completed=excluded.jobs_completed,
	 hourly_rate_cents=excluded.hourly_rate_cents,
	 elite=excluded.elite;
	`, p.ID, p.CategoryID, p.Name, p.Title, p.Rating, p.Description, p.JobsCompleted, p.HourlyRateCents, p.Elite)
	return err
}

// ListByCategory returns providers best-rated first. An empty categoryID lists every provider.
func (r *ProviderRepo) ListByCategory(ctx context.Context, categoryID string, f ProviderFilters) ([]Provider, error) {
	var (
		where []string
		args  []any
	)
	if categoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, categoryID)
	}
	if f.MinRating > 0 {
		where = append(where, "rating >= ?")
		args = append(args, f.MinRating)
	}
	if f.MaxRateCents > 0 {
		where = append(where, "hourly_rate_cents <= ?")
		args = append(args, f.MaxRateCents)
	}
	if f.EliteOnly {
		where = append(where, "elite = 1")
	}
	q := `SELECT ` + providerColumns + ` FROM providers`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY rating DESC, jobs_completed DESC, name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns nil when no provider matches.
func (r *ProviderRepo) Get(ctx context.Context, id string) (*Provider, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = ?`, id)
	p, err := scanProvider(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(s rowScanner) (Provider, error) {
	var p Provider
	err := s.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Title, &p.Rating, &p.Description, &p.JobsCompleted, &p.HourlyRateCents, &p.Elite)
	return p, err
}
