package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/tui/core"
)

// Confirm asks a yes/no question and runs onYes when accepted.
type Confirm struct {
	env    *core.Env
	title  string
	prompt string
	onYes  tea.Cmd
}

func NewConfirm(env *core.Env, title, prompt string, onYes tea.Cmd) *Confirm {
	return &Confirm{env: env, title: title, prompt: prompt, onYes: onYes}
}

func (s *Confirm) Title() string { return s.title }
func (s *Confirm) Scope() string { return core.ScopeConfirm }

func (s *Confirm) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch {
	case s.env.Is(key, "confirm", s.Scope()):
		return s, s.onYes, true
	case s.env.Is(key, "close", s.Scope()):
		return s, nil, true
	}
	return s, nil, false
}

func (s *Confirm) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		core.TitleStyle.Render(s.title),
		"",
		s.prompt,
		"",
		core.MutedStyle.Render("y confirmar · n cancelar"),
	)
	return frame(width, body)
}
