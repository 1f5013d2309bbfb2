package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/camaron/internal/database"
	"github.com/jask/camaron/internal/database/repository"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "repo.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(context.Background(), db))
	return db
}

func TestUserInsertRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepo(seededDB(t))
	u := repository.User{ID: "1", Name: "Ana", Email: "a@b.com", Phone: "5512345678", PasswordHash: "x", CreatedAt: database.Now()}
	require.NoError(t, repo.Insert(ctx, u))

	u.ID = "2"
	require.ErrorIs(t, repo.Insert(ctx, u), repository.ErrDuplicateEmail)

	got, err := repo.ByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)

	missing, err := repo.ByEmail(ctx, "nobody@b.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestProviderFilters(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProviderRepo(seededDB(t))

	elite, err := repo.ListByCategory(ctx, "maintenance", repository.ProviderFilters{EliteOnly: true})
	require.NoError(t, err)
	require.Len(t, elite, 2)

	cheap, err := repo.ListByCategory(ctx, "maintenance", repository.ProviderFilters{MaxRateCents: 800})
	require.NoError(t, err)
	require.Len(t, cheap, 2)
	for _, p := range cheap {
		require.LessOrEqual(t, p.HourlyRateCents, int64(800))
	}

	all, err := repo.ListByCategory(ctx, "", repository.ProviderFilters{MinRating: 4.8})
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		require.GreaterOrEqual(t, all[i-1].Rating, all[i].Rating)
	}
}

func TestBookingSlotUniqueness(t *testing.T) {
	ctx := context.Background()
	db := seededDB(t)
	provs, err := repository.NewProviderRepo(db).ListByCategory(ctx, "cleaning", repository.ProviderFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, provs)

	repo := repository.NewBookingRepo(db)
	at := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	now := database.Now()
	b := repository.Booking{ID: "b1", ClientID: "c1", ProviderID: provs[0].ID, CategoryID: "cleaning", ScheduledAt: at, DurationMinutes: 60, Status: repository.BookingPending, TotalCents: 1200, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Insert(ctx, b))

	b.ID = "b2"
	require.ErrorIs(t, repo.Insert(ctx, b), repository.ErrSlotTaken)

	changed, err := repo.UpdateStatus(ctx, "b1", repository.BookingCancelled, now)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, repo.Insert(ctx, b))

	list, err := repo.ListForClient(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	active, err := repo.ActiveForProvider(ctx, provs[0].ID, at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "b2", active[0].ID)
	require.True(t, active[0].ScheduledAt.Equal(at))

	none, err := repo.ActiveForProvider(ctx, provs[0].ID, at.Add(time.Minute), at.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, none)
}
