package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/camaron/internal/config"
	"github.com/jask/camaron/internal/database"
	"github.com/jask/camaron/internal/database/repository"
	"github.com/jask/camaron/internal/router"
	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/session"
	"github.com/jask/camaron/internal/tui"
	"github.com/jask/camaron/internal/tui/core"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.Path, "camaron ")
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	userRepo := repository.NewUserRepo(db)
	catRepo := repository.NewCategoryRepo(db)
	provRepo := repository.NewProviderRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// stand-ins for the remote API
	auth := &service.AuthService{Users: userRepo, Latency: cfg.Auth.Latency, Jitter: cfg.Auth.Jitter}
	catalog := &service.CatalogService{Categories: catRepo, Providers: provRepo}
	bookings := &service.BookingService{Bookings: bookingRepo, Providers: provRepo}
	maintenance := &service.MaintenanceService{DB: db}

	store := session.New(auth, auth, session.WithLogger(log.Default()))
	if store.BypassAvailable() {
		log.Printf("dev bypass compiled in")
	}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	env := &core.Env{
		Ctx:         ctx,
		Store:       store,
		TestUsers:   auth,
		Catalog:     catalog,
		Bookings:    bookings,
		Maintenance: maintenance,
		Config:      &cfg,
		Loc:         loc,
		SaveConfig:  config.Save,
		Keys:        core.NewKeyRegistry(core.DefaultKeyBindings()),
	}

	p := tea.NewProgram(tui.New(env, router.New(cfg.UI.Splash, log.Default())), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
