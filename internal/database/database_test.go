package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/camaron/internal/database/repository"
)

var errBoom = errors.New("boom")

func openTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	return dbPath
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := openTestDB(t)
	require.NoError(t, RunMigrations(dbPath))

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users','categories','providers','bookings')`).Scan(&n))
	require.Equal(t, 4, n)
}

func TestSeedDefaults(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := Open(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, SeedDefaults(ctx, db))

	cats, err := repository.NewCategoryRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(seedCategories))
	require.Equal(t, "maintenance", cats[0].ID)
	require.Equal(t, "Mantenimiento", cats[0].Name)

	provs, err := repository.NewProviderRepo(db).ListByCategory(ctx, "maintenance", repository.ProviderFilters{})
	require.NoError(t, err)
	require.Len(t, provs, 3)
	require.Equal(t, SeedID("provider", "maintenance/Sadico Timido"), provs[0].ID)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := Open(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(id, name) VALUES ('x', 'X')`); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := repository.NewCategoryRepo(db).Get(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStampIsUTCSeconds(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	got := Stamp(time.Date(2030, 1, 7, 9, 10, 11, 500, loc))
	require.Equal(t, time.UTC, got.Location())
	require.True(t, got.Equal(time.Date(2030, 1, 7, 15, 10, 11, 0, time.UTC)))
}
