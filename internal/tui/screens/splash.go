package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/tui/core"
)

// Splash is shown while the router waits for the splash timer.
type Splash struct {
	env *core.Env
}

func NewSplash(env *core.Env) *Splash { return &Splash{env: env} }

func (s *Splash) Title() string { return "Inicio" }
func (s *Splash) Scope() string { return core.ScopeSplash }

func (s *Splash) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	if s.env.Is(key, "bypass", s.Scope()) && s.env.Store.BypassAvailable() {
		return s, s.env.BypassCmd(), false
	}
	return s, nil, false
}

func (s *Splash) View(width, height int) string {
	lines := []string{
		core.TitleStyle.Render(strings.ToUpper(core.AppName)),
		"",
		core.MutedStyle.Render("Servicios para tu hogar"),
	}
	if s.env.Store.BypassAvailable() {
		lines = append(lines, "", core.WarnStyle.Render("Presiona b para entrar como usuario de prueba"))
	}
	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(max(1, width), max(1, height), lipgloss.Center, lipgloss.Center, body)
}
