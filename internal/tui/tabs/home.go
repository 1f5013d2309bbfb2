package tabs

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/screens"
	"github.com/jask/camaron/internal/tui/widgets"
)

type Home struct {
	env      *core.Env
	overview service.Overview
	loaded   bool
	err      error
	cursor   int
	users    int
	bookings int
}

type overviewLoadedMsg struct {
	overview service.Overview
	err      error
}

type statsLoadedMsg struct {
	users, bookings int
	err             error
}

func NewHome(env *core.Env) *Home { return &Home{env: env} }

func (h *Home) ID() string    { return "home" }
func (h *Home) Title() string { return "Inicio" }
func (h *Home) Scope() string { return core.ScopeHome }

func (h *Home) Init() tea.Cmd {
	return tea.Batch(h.loadOverview(), h.loadStats())
}

func (h *Home) loadOverview() tea.Cmd {
	return func() tea.Msg {
		ov, err := h.env.Catalog.Overview(h.env.Ctx)
		return overviewLoadedMsg{overview: ov, err: err}
	}
}

func (h *Home) loadStats() tea.Cmd {
	if h.env.Maintenance == nil {
		return nil
	}
	return func() tea.Msg {
		u, b, err := h.env.Maintenance.Stats(h.env.Ctx)
		return statsLoadedMsg{users: u, bookings: b, err: err}
	}
}

func (h *Home) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		h.overview, h.err, h.loaded = msg.overview, msg.err, true
		h.cursor = min(h.cursor, max(0, len(h.overview.Categories)-1))
		if msg.err != nil {
			return core.ErrorCmd(msg.err)
		}
	case statsLoadedMsg:
		if msg.err == nil {
			h.users, h.bookings = msg.users, msg.bookings
		}
	case core.BookingsChangedMsg:
		return h.loadStats()
	case tea.KeyMsg:
		switch {
		case h.env.Is(msg, "down", h.Scope()):
			h.cursor = min(h.cursor+1, max(0, len(h.overview.Categories)-1))
		case h.env.Is(msg, "up", h.Scope()):
			h.cursor = max(h.cursor-1, 0)
		case h.env.Is(msg, "select", h.Scope()):
			if h.cursor < len(h.overview.Categories) {
				c := h.overview.Categories[h.cursor]
				return core.MsgCmd(core.OpenModalMsg{Screen: screens.NewProviderList(h.env, c.ID, c.Name)})
			}
		case h.env.Is(msg, "search", h.Scope()):
			return core.MsgCmd(core.OpenModalMsg{Screen: screens.NewServiceSelection(h.env)})
		case h.env.Is(msg, "logout", h.Scope()):
			return h.env.LogoutCmd()
		case h.env.Is(msg, "refresh", h.Scope()):
			return h.Init()
		}
	}
	return nil
}

func (h *Home) greeting() string {
	u := h.env.CurrentUser()
	if u == nil {
		return core.TitleStyle.Render("¡Hola!")
	}
	kind := "Cliente"
	if u.IsServiceProvider {
		kind = "Proveedor de servicios"
	}
	first := strings.Fields(u.Name)
	name := u.Name
	if len(first) > 0 {
		name = first[0]
	}
	return core.TitleStyle.Render("¡Hola, "+name+"!") + "  " + core.BadgeStyle.Render(kind)
}

func (h *Home) View(width, height int) string {
	head := lipgloss.JoinVertical(lipgloss.Left,
		h.greeting(),
		core.MutedStyle.Render("¿Qué servicio necesitas hoy? Presiona s para buscar."),
		"",
	)
	bodyH := max(3, height-lipgloss.Height(head)-1)
	if h.err != nil {
		return head + "\n" + core.ErrorStyle.Render(h.err.Error())
	}
	if !h.loaded {
		return head + "\n" + core.MutedStyle.Render("Cargando…")
	}

	cats := make([]string, 0, len(h.overview.Categories))
	for _, c := range h.overview.Categories {
		cats = append(cats, fmt.Sprintf("%-14s %s", c.Name, core.MutedStyle.Render(core.Count(c.AvailableCount)+" disponibles")))
	}
	leftW := max(20, width/2)
	left := widgets.Panel{Title: "Servicios", Content: widgets.List(cats, h.cursor, bodyH-2), Focused: true}.Render(leftW, bodyH)

	var top []string
	for _, p := range h.overview.TopProviders {
		top = append(top,
			core.LabelStyle.Render(p.Name),
			core.MutedStyle.Render(fmt.Sprintf("%s %.1f · %s/h", core.Stars(p.Rating), p.Rating, core.Money(h.env.Currency(), p.HourlyRateCents))),
			"")
	}
	right := widgets.Panel{Title: "Mejor calificados", Content: strings.Join(top, "\n")}.Render(max(20, width-leftW), bodyH)

	footer := core.MutedStyle.Render(fmt.Sprintf("usuarios: %d · reservas: %d", h.users, h.bookings))
	return lipgloss.JoinVertical(lipgloss.Left, head, lipgloss.JoinHorizontal(lipgloss.Top, left, right), footer)
}
