// Package tuitest builds a fully wired core.Env on a temporary SQLite
// database for the TUI package tests.
package tuitest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/camaron/internal/config"
	"github.com/jask/camaron/internal/database"
	"github.com/jask/camaron/internal/database/repository"
	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/session"
	"github.com/jask/camaron/internal/tui/core"
)

// Password is the password of every account created by SignUp.
const Password = "secret1"

// Now is the fixed clock used by the booking service: a Monday morning.
var Now = time.Date(2030, time.January, 7, 9, 10, 0, 0, time.UTC)

type Env struct {
	*core.Env
	Auth  *service.AuthService
	Saved []config.Config
}

func NewEnv(t testing.TB) *Env {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tui.db")
	if err := database.RunMigrations(dbPath); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	if err := database.SeedDefaults(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	provs := repository.NewProviderRepo(db)
	auth := &service.AuthService{Users: repository.NewUserRepo(db), Cost: bcrypt.MinCost}
	cfg := &config.Config{}
	cfg.UI.CurrencySymbol = "$"
	cfg.UI.Timezone = "UTC"

	out := &Env{Auth: auth}
	out.Env = &core.Env{
		Ctx:         ctx,
		Store:       session.New(auth, auth),
		TestUsers:   auth,
		Catalog:     &service.CatalogService{Categories: repository.NewCategoryRepo(db), Providers: provs},
		Bookings:    &service.BookingService{Bookings: repository.NewBookingRepo(db), Providers: provs, Now: func() time.Time { return Now }},
		Maintenance: &service.MaintenanceService{DB: db},
		Config:      cfg,
		Loc:         time.UTC,
		Keys:        core.NewKeyRegistry(core.DefaultKeyBindings()),
	}
	out.SaveConfig = func(c config.Config) error {
		out.Saved = append(out.Saved, c)
		return nil
	}
	return out
}

// SignUp registers an account directly with the auth service.
func (e *Env) SignUp(t testing.TB, name, email string) session.User {
	t.Helper()
	u, err := e.Auth.Register(context.Background(), session.Registration{
		Name: name, Email: email, Phone: "5512345678", Password: Password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

// SignIn registers and logs in through the session store.
func (e *Env) SignIn(t testing.TB, name, email string) session.User {
	t.Helper()
	e.SignUp(t, name, email)
	s, err := e.Store.Login(context.Background(), email, Password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return *s.User
}

// Keys turns a key description into a KeyMsg. Named keys use bubbletea
// names ("enter", "esc", "tab", "ctrl+r"); anything else is typed as runes.
func Keys(s string) tea.KeyMsg {
	if k, ok := named[s]; ok {
		return tea.KeyMsg{Type: k}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var named = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"ctrl+a":    tea.KeyCtrlA,
	"ctrl+b":    tea.KeyCtrlB,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+r":    tea.KeyCtrlR,
	"ctrl+s":    tea.KeyCtrlS,
	"ctrl+t":    tea.KeyCtrlT,
}

// Run executes cmd and flattens batches into the messages they produce. It
// blocks for as long as the cmds do, so never pass it ticks, cursor blinks or
// the session wait.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
