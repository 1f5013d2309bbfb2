package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/camaron/internal/database"
)

// MaintenanceService houses destructive development actions surfaced through the TUI.
type MaintenanceService struct {
	DB *sql.DB
}

// ResetAccounts wipes registered users and their bookings. The catalog is kept.
func (s *MaintenanceService) ResetAccounts(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"bookings", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

// Stats backs the debug line on the home tab.
func (s *MaintenanceService) Stats(ctx context.Context) (users, bookings int, err error) {
	if s.DB == nil {
		return 0, 0, fmt.Errorf("maintenance: db not configured")
	}
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return 0, 0, err
	}
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&bookings); err != nil {
		return 0, 0, err
	}
	return users, bookings, nil
}
