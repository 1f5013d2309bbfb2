package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/router"
	"github.com/jask/camaron/internal/tui/core"
)

type SignIn struct {
	env  *core.Env
	form *form
}

func NewSignIn(env *core.Env) *SignIn {
	return &SignIn{
		env: env,
		form: newForm(
			newField("email", "Email", "tu@email.com", false),
			newField("password", "Contraseña", "••••••", true),
		),
	}
}

func (s *SignIn) Title() string { return "Iniciar sesión" }
func (s *SignIn) Scope() string { return core.ScopeSignIn }

// Capturing is always true: every printable key belongs to a field.
func (s *SignIn) Capturing() bool { return true }

func (s *SignIn) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch {
	case s.env.Is(key, "submit", s.Scope()):
		if s.env.Store.Snapshot().Loading() {
			return s, nil, false
		}
		email := strings.TrimSpace(s.form.value("email"))
		return s, s.env.LoginCmd(email, s.form.value("password")), false
	case s.env.Is(key, "field-next", s.Scope()):
		return s, s.form.next(), false
	case s.env.Is(key, "field-prev", s.Scope()):
		return s, s.form.prev(), false
	case s.env.Is(key, "to-register", s.Scope()):
		return s, core.MsgCmd(core.ShowAuthScreenMsg{Screen: router.Register}), false
	case s.env.Is(key, "bypass", s.Scope()) && s.env.Store.BypassAvailable():
		return s, s.env.BypassCmd(), false
	}
	cmd, changed := s.form.update(msg)
	if changed && s.env.Store.Snapshot().Err != nil {
		s.env.Store.ClearError()
	}
	return s, cmd, false
}

func (s *SignIn) View(width, height int) string {
	snap := s.env.Store.Snapshot()
	parts := []string{
		core.TitleStyle.Render("¡Bienvenido!"),
		core.MutedStyle.Render("Inicia sesión en tu cuenta"),
		"",
		s.form.view(),
		"",
	}
	switch {
	case snap.Loading():
		parts = append(parts, core.WarnStyle.Render("Iniciando sesión…"))
	case snap.Err != nil:
		parts = append(parts, core.ErrorStyle.Render(snap.Err.Message))
	default:
		parts = append(parts, core.MutedStyle.Render("enter para entrar"))
	}
	parts = append(parts, "", core.MutedStyle.Render("¿No tienes cuenta? ctrl+r para registrarte"))
	if s.env.Store.BypassAvailable() {
		parts = append(parts, core.WarnStyle.Render("Modo desarrollo: ctrl+b entra como usuario de prueba"))
	}
	return card(width, height, lipgloss.JoinVertical(lipgloss.Left, parts...))
}
