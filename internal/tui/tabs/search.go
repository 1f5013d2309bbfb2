package tabs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/screens"
	"github.com/jask/camaron/internal/tui/widgets"
)

// Search runs a fuzzy query over categories and providers as the user types.
type Search struct {
	env    *core.Env
	input  textinput.Model
	query  string
	hits   []service.SearchHit
	cursor int
	err    error
}

type searchResultMsg struct {
	query string
	hits  []service.SearchHit
	err   error
}

func NewSearch(env *core.Env) *Search {
	in := textinput.New()
	in.Placeholder = "plomero, limpieza, Ramón…"
	in.Prompt = "🔍 "
	in.CharLimit = 60
	in.Width = 40
	return &Search{env: env, input: in}
}

func (s *Search) ID() string    { return "search" }
func (s *Search) Title() string { return "Buscar" }
func (s *Search) Scope() string { return core.ScopeSearch }

// Capturing reports whether the query field has focus.
func (s *Search) Capturing() bool { return s.input.Focused() }

// Hits returns the results for the current query, best first.
func (s *Search) Hits() []service.SearchHit { return s.hits }

func (s *Search) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *Search) run(query string) tea.Cmd {
	s.query = query
	return func() tea.Msg {
		hits, err := s.env.Catalog.Search(s.env.Ctx, query)
		return searchResultMsg{query: query, hits: hits, err: err}
	}
}

func (s *Search) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchResultMsg:
		if msg.query != s.query {
			return nil
		}
		s.hits, s.err = msg.hits, msg.err
		s.cursor = 0
		return nil
	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.Type {
			case tea.KeyEsc, tea.KeyEnter, tea.KeyDown:
				s.input.Blur()
				return nil
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			if q := strings.TrimSpace(s.input.Value()); q != s.query {
				return tea.Batch(cmd, s.run(q))
			}
			return cmd
		}
		switch {
		case s.env.Is(msg, "focus-search", s.Scope()):
			return s.input.Focus()
		case s.env.Is(msg, "down", s.Scope()):
			s.cursor = min(s.cursor+1, max(0, len(s.hits)-1))
		case s.env.Is(msg, "up", s.Scope()):
			s.cursor = max(s.cursor-1, 0)
		case s.env.Is(msg, "select", s.Scope()):
			if s.cursor < len(s.hits) {
				return s.open(s.hits[s.cursor])
			}
		}
	}
	return nil
}

func (s *Search) open(hit service.SearchHit) tea.Cmd {
	if hit.Kind == service.HitCategory {
		return core.MsgCmd(core.OpenModalMsg{Screen: screens.NewProviderList(s.env, hit.ID, hit.Label)})
	}
	return func() tea.Msg {
		p, err := s.env.Catalog.Provider(s.env.Ctx, hit.ID)
		if err != nil {
			return core.StatusMsg{Text: err.Error(), IsErr: true}
		}
		if p == nil {
			return core.StatusMsg{Text: service.ErrProviderNotFound.Error(), IsErr: true}
		}
		return core.OpenModalMsg{Screen: screens.NewProviderDetails(s.env, *p)}
	}
}

func (s *Search) View(width, height int) string {
	lines := []string{s.input.View(), ""}
	switch {
	case s.err != nil:
		lines = append(lines, core.ErrorStyle.Render(s.err.Error()))
	case s.query == "":
		lines = append(lines, core.MutedStyle.Render("Escribe para buscar servicios o proveedores"))
	case len(s.hits) == 0:
		lines = append(lines, core.MutedStyle.Render(fmt.Sprintf("Sin resultados para %q", s.query)))
	default:
		items := make([]string, 0, len(s.hits))
		for _, h := range s.hits {
			kind := "servicio"
			if h.Kind == service.HitProvider {
				kind = "proveedor"
			}
			items = append(items, fmt.Sprintf("%-22s %s", h.Label, core.MutedStyle.Render(kind)))
		}
		cursor := s.cursor
		if s.input.Focused() {
			cursor = -1
		}
		lines = append(lines, widgets.List(items, cursor, max(1, height-6)))
	}
	hint := "esc/enter ir a resultados"
	if !s.input.Focused() {
		hint = "/ editar búsqueda · enter abrir"
	}
	lines = append(lines, "", core.MutedStyle.Render(hint))
	return widgets.Panel{Title: "Buscar", Content: strings.Join(lines, "\n"), Focused: true}.Render(width, height)
}
