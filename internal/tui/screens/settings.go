package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/tui/core"
)

const (
	fieldCurrency = "currency"
	fieldTimezone = "timezone"
)

// AccountSettings edits display preferences and exposes the demo reset.
type AccountSettings struct {
	env  *core.Env
	form *form
}

type settingsSavedMsg struct {
	to  *AccountSettings
	loc *time.Location
	err error
}

func NewAccountSettings(env *core.Env) *AccountSettings {
	f := newForm(
		newField(fieldCurrency, "Símbolo de moneda", "$", false),
		newField(fieldTimezone, "Zona horaria", "America/Mexico_City", false),
	)
	if env.Config != nil {
		f.setValue(fieldCurrency, env.Config.UI.CurrencySymbol)
		f.setValue(fieldTimezone, env.Config.UI.Timezone)
	}
	return &AccountSettings{env: env, form: f}
}

func (s *AccountSettings) Title() string   { return "Configuración de cuenta" }
func (s *AccountSettings) Scope() string   { return core.ScopeSettings }
func (s *AccountSettings) Capturing() bool { return true }

func (s *AccountSettings) save() tea.Cmd {
	currency := strings.TrimSpace(s.form.value(fieldCurrency))
	tz := strings.TrimSpace(s.form.value(fieldTimezone))
	if currency == "" {
		s.form.errs[fieldCurrency] = "Ingresa un símbolo"
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		s.form.errs[fieldTimezone] = "Zona horaria desconocida"
		return nil
	}
	return func() tea.Msg {
		if s.env.Config == nil {
			return settingsSavedMsg{to: s, err: fmt.Errorf("sin configuración cargada")}
		}
		cfg := *s.env.Config
		cfg.UI.CurrencySymbol = currency
		cfg.UI.Timezone = tz
		if s.env.SaveConfig != nil {
			if err := s.env.SaveConfig(cfg); err != nil {
				return settingsSavedMsg{to: s, err: fmt.Errorf("guardar configuración: %w", err)}
			}
		}
		return settingsSavedMsg{to: s, loc: loc}
	}
}

func (s *AccountSettings) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.to != s {
			return s, nil, false
		}
		if msg.err != nil {
			return s, core.ErrorCmd(msg.err), false
		}
		s.env.Config.UI.CurrencySymbol = strings.TrimSpace(s.form.value(fieldCurrency))
		s.env.Config.UI.Timezone = strings.TrimSpace(s.form.value(fieldTimezone))
		s.env.Loc = msg.loc
		return s, core.StatusCmd("Preferencias guardadas"), true
	case tea.KeyMsg:
		switch {
		case s.env.Is(msg, "close", s.Scope()):
			return s, nil, true
		case s.env.Is(msg, "save", s.Scope()):
			return s, s.save(), false
		case s.env.Is(msg, "field-next", s.Scope()):
			return s, s.form.next(), false
		case s.env.Is(msg, "field-prev", s.Scope()):
			return s, s.form.prev(), false
		case s.env.Is(msg, "reset-accounts", s.Scope()):
			confirm := NewConfirm(s.env, "Borrar cuentas de prueba",
				"Se eliminarán todos los usuarios registrados y sus reservas.\nTu sesión se cerrará.",
				ResetAccountsCmd(s.env))
			return s, core.MsgCmd(core.OpenModalMsg{Screen: confirm}), false
		}
		cmd, _ := s.form.update(msg)
		return s, cmd, false
	}
	return s, nil, false
}

// ResetAccountsCmd wipes registered users and bookings, then signs out.
func ResetAccountsCmd(env *core.Env) tea.Cmd {
	return func() tea.Msg {
		ctx := env.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		if err := env.Maintenance.ResetAccounts(ctx); err != nil {
			return core.StatusMsg{Text: "No se pudieron borrar las cuentas: " + err.Error(), IsErr: true}
		}
		env.Store.Logout()
		return core.StatusMsg{Text: "Cuentas de prueba eliminadas"}
	}
}

func (s *AccountSettings) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		core.TitleStyle.Render(s.Title()),
		"",
		s.form.view(),
		"",
		core.MutedStyle.Render("enter guardar · tab cambiar campo · esc cerrar"),
		core.WarnStyle.Render("ctrl+r borrar cuentas de prueba"),
	)
	return frame(width, body)
}
