package core

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/camaron/internal/config"
	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/session"
)

// TestUserFactory produces the development identity for the login bypass.
type TestUserFactory interface {
	CreateTestUser() session.User
}

// Env is what screens and tabs need from the outside world. It is built once
// in main and shared by pointer.
type Env struct {
	Ctx         context.Context
	Store       *session.Store
	TestUsers   TestUserFactory
	Catalog     *service.CatalogService
	Bookings    *service.BookingService
	Maintenance *service.MaintenanceService
	Config      *config.Config
	Loc         *time.Location
	SaveConfig  func(config.Config) error
	Keys        *KeyRegistry
}

// Is reports whether msg triggers action in scope.
func (e *Env) Is(msg tea.KeyMsg, action, scope string) bool {
	if e == nil || e.Keys == nil {
		return false
	}
	return e.Keys.IsAction(msg, action, scope)
}

func (e *Env) Location() *time.Location {
	if e == nil || e.Loc == nil {
		return time.Local
	}
	return e.Loc
}

// CurrentUser returns the signed-in user or nil.
func (e *Env) CurrentUser() *session.User {
	if e == nil || e.Store == nil {
		return nil
	}
	return e.Store.Snapshot().User
}

func (e *Env) Currency() string {
	if e == nil || e.Config == nil || e.Config.UI.CurrencySymbol == "" {
		return "$"
	}
	return e.Config.UI.CurrencySymbol
}

// LoginCmd runs a login off the UI loop.
func (e *Env) LoginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		s, err := e.Store.Login(e.Ctx, email, password)
		return AuthResultMsg{Op: "login", User: s.User, Err: err}
	}
}

// RegisterCmd runs a registration off the UI loop.
func (e *Env) RegisterCmd(r session.Registration) tea.Cmd {
	return func() tea.Msg {
		s, err := e.Store.Register(e.Ctx, r)
		return AuthResultMsg{Op: "register", User: s.User, Err: err}
	}
}

// BypassCmd signs in as the development identity.
func (e *Env) BypassCmd() tea.Cmd {
	return func() tea.Msg {
		if e.TestUsers == nil {
			return AuthResultMsg{Op: "bypass", Err: errors.New("no test user factory")}
		}
		s, err := e.Store.BypassLogin(e.TestUsers.CreateTestUser())
		return AuthResultMsg{Op: "bypass", User: s.User, Err: err}
	}
}

// LogoutCmd signs out. The router reacts to the resulting session change.
func (e *Env) LogoutCmd() tea.Cmd {
	return func() tea.Msg {
		e.Store.Logout()
		return LogoutMsg{}
	}
}
