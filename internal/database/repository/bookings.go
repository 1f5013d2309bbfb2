package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrSlotTaken is returned when a provider already has an active booking at that time.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepo handles bookings.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, client_id, provider_id, category_id, scheduled_at, duration_minutes, status, total_cents, notes, created_at, updated_at`

func (r *BookingRepo) Insert(ctx context.Context, b Booking) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO bookings(`+bookingColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.ClientID, b.ProviderID, b.CategoryID, b.ScheduledAt.UTC(), b.DurationMinutes, b.Status, b.TotalCents, b.Notes, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return ErrSlotTaken
	}
	return err
}

// ListForClient returns bookings newest scheduled first.
func (r *BookingRepo) ListForClient(ctx context.Context, clientID string) ([]Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE client_id = ? ORDER BY scheduled_at DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Get returns nil when no booking matches.
func (r *BookingRepo) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ActiveForProvider returns the provider's bookings that are not cancelled and
// start in [from, to), earliest first.
func (r *BookingRepo) ActiveForProvider(ctx context.Context, providerID string, from, to time.Time) ([]Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings
	WHERE provider_id = ? AND status != ? AND scheduled_at >= ? AND scheduled_at < ?
	ORDER BY scheduled_at`, providerID, BookingCancelled, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus reports whether a row was changed.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`, status, at.UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanBooking(s rowScanner) (Booking, error) {
	var b Booking
	err := s.Scan(&b.ID, &b.ClientID, &b.ProviderID, &b.CategoryID, &b.ScheduledAt, &b.DurationMinutes, &b.Status, &b.TotalCents, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
