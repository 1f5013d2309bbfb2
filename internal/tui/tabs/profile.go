package tabs

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/screens"
	"github.com/jask/camaron/internal/tui/widgets"
)

type Profile struct {
	env *core.Env
}

func NewProfile(env *core.Env) *Profile { return &Profile{env: env} }

func (p *Profile) ID() string    { return "profile" }
func (p *Profile) Title() string { return "Perfil" }
func (p *Profile) Scope() string { return core.ScopeProfile }
func (p *Profile) Init() tea.Cmd { return nil }

func (p *Profile) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case p.env.Is(key, "settings", p.Scope()):
		return core.MsgCmd(core.OpenModalMsg{Screen: screens.NewAccountSettings(p.env)})
	case p.env.Is(key, "logout", p.Scope()):
		return p.env.LogoutCmd()
	}
	return nil
}

func (p *Profile) View(width, height int) string {
	u := p.env.CurrentUser()
	if u == nil {
		return widgets.Panel{Title: "Perfil", Content: core.MutedStyle.Render("Sin sesión")}.Render(width, height)
	}
	kind := "Cliente"
	if u.IsServiceProvider {
		kind = "Proveedor de servicios"
	}
	lines := []string{
		core.TitleStyle.Render(u.Name) + "  " + core.BadgeStyle.Render(kind),
		"",
		"Email:    " + u.Email,
		"Teléfono: " + u.Phone,
	}
	if u.IsServiceProvider {
		lines = append(lines, fmt.Sprintf("Rating:   %s %.1f (%d reseñas)", core.Stars(u.Rating), u.Rating, u.ReviewCount))
	}
	if !u.CreatedAt.IsZero() {
		lines = append(lines, "Miembro:  "+core.RelTime(u.CreatedAt, time.Now()))
	}
	lines = append(lines,
		"",
		core.MutedStyle.Render("Moneda: "+p.env.Currency()+" · Zona horaria: "+p.env.Location().String()),
		"",
		core.MutedStyle.Render("a configuración · l cerrar sesión"),
	)
	return widgets.Panel{Title: "Perfil", Content: strings.Join(lines, "\n"), Focused: true}.Render(width, height)
}
