package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/database/repository"
	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/widgets"
)

const calendarDays = 7

var (
	rateSteps     = []int64{0, 800, 1200, 1600}
	durationSteps = []int{60, 90, 120, 180, 240}
)

// ServiceSelection lists categories; enter opens that category's providers.
type ServiceSelection struct {
	env    *core.Env
	cats   []repository.Category
	cursor int
	err    error
	loaded bool
}

type categoriesLoadedMsg struct {
	to   *ServiceSelection
	cats []repository.Category
	err  error
}

func NewServiceSelection(env *core.Env) *ServiceSelection {
	return &ServiceSelection{env: env}
}

func (s *ServiceSelection) Title() string { return "¿Qué necesitas?" }
func (s *ServiceSelection) Scope() string { return core.ScopeServices }

func (s *ServiceSelection) Init() tea.Cmd {
	return func() tea.Msg {
		cats, err := s.env.Catalog.ListCategories(s.env.Ctx)
		return categoriesLoadedMsg{to: s, cats: cats, err: err}
	}
}

func (s *ServiceSelection) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.to == s {
			s.cats, s.err, s.loaded = msg.cats, msg.err, true
		}
	case tea.KeyMsg:
		switch {
		case s.env.Is(msg, "close", s.Scope()):
			return s, nil, true
		case s.env.Is(msg, "down", s.Scope()):
			s.cursor = min(s.cursor+1, max(0, len(s.cats)-1))
		case s.env.Is(msg, "up", s.Scope()):
			s.cursor = max(s.cursor-1, 0)
		case s.env.Is(msg, "select", s.Scope()):
			if s.cursor < len(s.cats) {
				c := s.cats[s.cursor]
				return s, core.MsgCmd(core.OpenModalMsg{Screen: NewProviderList(s.env, c.ID, c.Name)}), false
			}
		}
	}
	return s, nil, false
}

func (s *ServiceSelection) View(width, height int) string {
	var body string
	switch {
	case s.err != nil:
		body = core.ErrorStyle.Render(s.err.Error())
	case !s.loaded:
		body = core.MutedStyle.Render("Cargando…")
	default:
		items := make([]string, 0, len(s.cats))
		for _, c := range s.cats {
			items = append(items, fmt.Sprintf("%-16s %s", c.Name, core.MutedStyle.Render(fmt.Sprintf("%d disponibles", c.AvailableCount))))
		}
		body = widgets.List(items, s.cursor, max(1, height-4))
	}
	return widgets.Panel{Title: s.Title(), Content: body, Focused: true}.Render(width, height)
}

// ProviderList shows a category's providers with toggleable filters.
type ProviderList struct {
	env        *core.Env
	categoryID string
	category   string
	filters    repository.ProviderFilters
	rateIdx    int
	providers  []repository.Provider
	cursor     int
	err        error
	loaded     bool
	seq        int
}

type providersLoadedMsg struct {
	to        *ProviderList
	seq       int
	providers []repository.Provider
	err       error
}

func NewProviderList(env *core.Env, categoryID, category string) *ProviderList {
	return &ProviderList{env: env, categoryID: categoryID, category: category}
}

func (s *ProviderList) Title() string { return s.category }
func (s *ProviderList) Scope() string { return core.ScopeProviders }

// Filters returns the filters currently applied.
func (s *ProviderList) Filters() repository.ProviderFilters { return s.filters }

func (s *ProviderList) Init() tea.Cmd {
	s.seq++
	seq, filters := s.seq, s.filters
	return func() tea.Msg {
		provs, err := s.env.Catalog.ListProviders(s.env.Ctx, s.categoryID, filters)
		return providersLoadedMsg{to: s, seq: seq, providers: provs, err: err}
	}
}

func (s *ProviderList) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case providersLoadedMsg:
		if msg.to == s && msg.seq == s.seq {
			s.providers, s.err, s.loaded = msg.providers, msg.err, true
			s.cursor = min(s.cursor, max(0, len(s.providers)-1))
		}
	case tea.KeyMsg:
		switch {
		case s.env.Is(msg, "close", s.Scope()):
			return s, nil, true
		case s.env.Is(msg, "down", s.Scope()):
			s.cursor = min(s.cursor+1, max(0, len(s.providers)-1))
		case s.env.Is(msg, "up", s.Scope()):
			s.cursor = max(s.cursor-1, 0)
		case s.env.Is(msg, "filter-elite", s.Scope()):
			s.filters.EliteOnly = !s.filters.EliteOnly
			return s, s.Init(), false
		case s.env.Is(msg, "filter-rating", s.Scope()):
			if s.filters.MinRating > 0 {
				s.filters.MinRating = 0
			} else {
				s.filters.MinRating = 4.5
			}
			return s, s.Init(), false
		case s.env.Is(msg, "filter-rate", s.Scope()):
			s.rateIdx = (s.rateIdx + 1) % len(rateSteps)
			s.filters.MaxRateCents = rateSteps[s.rateIdx]
			return s, s.Init(), false
		case s.env.Is(msg, "select", s.Scope()):
			if s.cursor < len(s.providers) {
				return s, core.MsgCmd(core.OpenModalMsg{Screen: NewProviderDetails(s.env, s.providers[s.cursor])}), false
			}
		}
	}
	return s, nil, false
}

func (s *ProviderList) filterLine() string {
	on := func(label string, active bool) string {
		if active {
			return core.BadgeStyle.Render(label)
		}
		return core.MutedStyle.Render(label)
	}
	rate := "tarifa: todas"
	if s.filters.MaxRateCents > 0 {
		rate = "tarifa ≤ " + core.Money(s.env.Currency(), s.filters.MaxRateCents)
	}
	return strings.Join([]string{
		on("e elite", s.filters.EliteOnly),
		on("r ★4.5+", s.filters.MinRating > 0),
		on("m "+rate, s.filters.MaxRateCents > 0),
	}, "  ")
}

func (s *ProviderList) View(width, height int) string {
	lines := []string{s.filterLine(), ""}
	switch {
	case s.err != nil:
		lines = append(lines, core.ErrorStyle.Render(s.err.Error()))
	case !s.loaded:
		lines = append(lines, core.MutedStyle.Render("Cargando…"))
	case len(s.providers) == 0:
		lines = append(lines, core.MutedStyle.Render("Sin proveedores con esos filtros"))
	default:
		items := make([]string, 0, len(s.providers))
		for _, p := range s.providers {
			items = append(items, fmt.Sprintf("%-18s %s %.1f  %s/h  %d trabajos",
				p.Name, core.Stars(p.Rating), p.Rating, core.Money(s.env.Currency(), p.HourlyRateCents), p.JobsCompleted))
		}
		lines = append(lines, widgets.List(items, s.cursor, max(1, height-6)))
	}
	return widgets.Panel{Title: s.Title(), Content: strings.Join(lines, "\n"), Focused: true}.Render(width, height)
}

// ProviderDetails shows one provider; enter continues to the calendar.
type ProviderDetails struct {
	env      *core.Env
	provider repository.Provider
}

func NewProviderDetails(env *core.Env, p repository.Provider) *ProviderDetails {
	return &ProviderDetails{env: env, provider: p}
}

func (s *ProviderDetails) Title() string { return s.provider.Name }
func (s *ProviderDetails) Scope() string { return core.ScopeDetails }

func (s *ProviderDetails) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch {
	case s.env.Is(key, "close", s.Scope()):
		return s, nil, true
	case s.env.Is(key, "select", s.Scope()):
		return s, core.MsgCmd(core.OpenModalMsg{Screen: NewCalendar(s.env, s.provider)}), false
	}
	return s, nil, false
}

func (s *ProviderDetails) View(width, height int) string {
	p := s.provider
	title := p.Title
	if p.Elite {
		title = core.BadgeStyle.Render(p.Title)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		core.TitleStyle.Render(p.Name),
		title,
		"",
		fmt.Sprintf("%s %.1f · %d trabajos completados", core.Stars(p.Rating), p.Rating, p.JobsCompleted),
		"Tarifa: "+core.Money(s.env.Currency(), p.HourlyRateCents)+" por hora",
		"",
		lipgloss.NewStyle().Width(max(10, width-6)).Render(p.Description),
		"",
		core.MutedStyle.Render("enter elegir horario · esc volver"),
	)
	return widgets.Panel{Title: "Proveedor", Content: body, Focused: true}.Render(width, height)
}

// Calendar picks a day in the next week, a start slot and a duration.
type Calendar struct {
	env      *core.Env
	provider repository.Provider
	days     []time.Time
	day      int
	slots    []time.Time
	cursor   int
	duration int
	err      error
}

func NewCalendar(env *core.Env, p repository.Provider) *Calendar {
	loc := env.Location()
	now := time.Now().In(loc)
	if env.Bookings != nil && env.Bookings.Now != nil {
		now = env.Bookings.Now().In(loc)
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := make([]time.Time, 0, calendarDays)
	for i := range calendarDays {
		days = append(days, start.AddDate(0, 0, i))
	}
	c := &Calendar{env: env, provider: p, days: days, duration: durationSteps[0]}
	c.reload()
	return c
}

func (s *Calendar) Title() string { return "Elige un horario" }
func (s *Calendar) Scope() string { return core.ScopeCalendar }

// Slots returns the start times offered for the selected day.
func (s *Calendar) Slots() []time.Time { return s.slots }

func (s *Calendar) reload() {
	s.slots, s.err = s.env.Bookings.Slots(s.env.Ctx, s.provider.ID, s.days[s.day], s.env.Location(), s.duration)
	s.cursor = min(s.cursor, max(0, len(s.slots)-1))
}

func (s *Calendar) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch {
	case s.env.Is(key, "close", s.Scope()):
		return s, nil, true
	case s.env.Is(key, "day-next", s.Scope()):
		s.day = min(s.day+1, len(s.days)-1)
		s.reload()
	case s.env.Is(key, "day-prev", s.Scope()):
		s.day = max(s.day-1, 0)
		s.reload()
	case s.env.Is(key, "down", s.Scope()):
		s.cursor = min(s.cursor+1, max(0, len(s.slots)-1))
	case s.env.Is(key, "up", s.Scope()):
		s.cursor = max(s.cursor-1, 0)
	case s.env.Is(key, "longer", s.Scope()):
		s.duration = stepDuration(s.duration, 1)
		s.reload()
	case s.env.Is(key, "shorter", s.Scope()):
		s.duration = stepDuration(s.duration, -1)
		s.reload()
	case s.env.Is(key, "select", s.Scope()):
		if s.cursor < len(s.slots) {
			review := NewReview(s.env, s.provider, s.slots[s.cursor], s.duration)
			return s, core.MsgCmd(core.OpenModalMsg{Screen: review}), false
		}
	}
	return s, nil, false
}

func stepDuration(cur, dir int) int {
	idx := 0
	for i, d := range durationSteps {
		if d == cur {
			idx = i
		}
	}
	idx = min(max(idx+dir, 0), len(durationSteps)-1)
	return durationSteps[idx]
}

func (s *Calendar) View(width, height int) string {
	tabs := make([]string, 0, len(s.days))
	for i, d := range s.days {
		label := dayLabel(d)
		if i == s.day {
			tabs = append(tabs, core.BadgeStyle.Render(label))
		} else {
			tabs = append(tabs, core.MutedStyle.Render(label))
		}
	}
	lines := []string{
		strings.Join(tabs, " "),
		fmt.Sprintf("Duración: %s  (%s)", formatMinutes(s.duration),
			core.Money(s.env.Currency(), service.Quote(s.provider, s.duration))),
		"",
	}
	switch {
	case s.err != nil:
		lines = append(lines, core.ErrorStyle.Render(s.err.Error()))
	case len(s.slots) == 0:
		lines = append(lines, core.MutedStyle.Render("No quedan horarios este día"))
	default:
		items := make([]string, 0, len(s.slots))
		for _, t := range s.slots {
			end := t.Add(time.Duration(s.duration) * time.Minute)
			items = append(items, t.Format("15:04")+" – "+end.Format("15:04"))
		}
		lines = append(lines, widgets.List(items, s.cursor, max(1, height-7)))
	}
	lines = append(lines, core.MutedStyle.Render("h/l día · +/- duración · enter continuar"))
	return widgets.Panel{Title: s.Title() + " · " + s.provider.Name, Content: strings.Join(lines, "\n"), Focused: true}.Render(width, height)
}

var weekdays = [...]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

func dayLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", weekdays[t.Weekday()], t.Day())
}

func formatMinutes(m int) string {
	if m%60 == 0 {
		return fmt.Sprintf("%d h", m/60)
	}
	return fmt.Sprintf("%d h %d min", m/60, m%60)
}

// Review summarises the booking and collects optional notes.
type Review struct {
	env      *core.Env
	provider repository.Provider
	at       time.Time
	duration int
	notes    textinput.Model
	pending  bool
	err      error
}

type bookingCreatedMsg struct {
	to      *Review
	booking repository.Booking
	err     error
}

func NewReview(env *core.Env, p repository.Provider, at time.Time, duration int) *Review {
	in := textinput.New()
	in.Placeholder = "Notas para el proveedor (opcional)"
	in.Prompt = "› "
	in.CharLimit = 200
	in.Width = 40
	in.Focus()
	return &Review{env: env, provider: p, at: at, duration: duration, notes: in}
}

func (s *Review) Title() string   { return "Revisa tu reserva" }
func (s *Review) Scope() string   { return core.ScopeReview }
func (s *Review) Capturing() bool { return true }

func (s *Review) Init() tea.Cmd { return textinput.Blink }

func (s *Review) submit() tea.Cmd {
	user := s.env.CurrentUser()
	if user == nil {
		return core.ErrorCmd(fmt.Errorf("inicia sesión para reservar"))
	}
	req := service.BookingRequest{
		ClientID:        user.ID,
		ProviderID:      s.provider.ID,
		ScheduledAt:     s.at,
		DurationMinutes: s.duration,
		Notes:           s.notes.Value(),
	}
	s.pending = true
	s.err = nil
	return func() tea.Msg {
		b, err := s.env.Bookings.Create(s.env.Ctx, req)
		return bookingCreatedMsg{to: s, booking: b, err: err}
	}
}

func (s *Review) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case bookingCreatedMsg:
		if msg.to != s {
			return s, nil, false
		}
		s.pending = false
		if msg.err != nil {
			s.err = msg.err
			return s, core.ErrorCmd(msg.err), false
		}
		done := NewConfirmation(s.env, s.provider, msg.booking)
		return s, tea.Batch(
			core.MsgCmd(core.OpenModalMsg{Screen: done}),
			core.MsgCmd(core.BookingsChangedMsg{}),
		), false
	case tea.KeyMsg:
		switch {
		case s.env.Is(msg, "close", s.Scope()):
			return s, nil, true
		case s.env.Is(msg, "select", s.Scope()):
			if s.pending {
				return s, nil, false
			}
			return s, s.submit(), false
		}
	}
	var cmd tea.Cmd
	s.notes, cmd = s.notes.Update(msg)
	return s, cmd, false
}

func (s *Review) View(width, height int) string {
	end := s.at.Add(time.Duration(s.duration) * time.Minute)
	lines := []string{
		core.LabelStyle.Render(s.provider.Name) + "  " + core.MutedStyle.Render(s.provider.Title),
		dayLabel(s.at) + " " + s.at.Format("15:04") + " – " + end.Format("15:04") + " (" + formatMinutes(s.duration) + ")",
		"Total: " + core.OKStyle.Render(core.Money(s.env.Currency(), service.Quote(s.provider, s.duration))),
		"",
		s.notes.View(),
		"",
	}
	switch {
	case s.pending:
		lines = append(lines, core.WarnStyle.Render("Reservando…"))
	case s.err != nil:
		lines = append(lines, core.ErrorStyle.Render(s.err.Error()))
	default:
		lines = append(lines, core.MutedStyle.Render("enter confirmar · esc volver"))
	}
	return widgets.Panel{Title: s.Title(), Content: strings.Join(lines, "\n"), Focused: true}.Render(width, height)
}

// Confirmation closes the whole booking flow on any dismiss key.
type Confirmation struct {
	env      *core.Env
	provider repository.Provider
	booking  repository.Booking
}

func NewConfirmation(env *core.Env, p repository.Provider, b repository.Booking) *Confirmation {
	return &Confirmation{env: env, provider: p, booking: b}
}

func (s *Confirmation) Title() string { return "¡Reserva creada!" }
func (s *Confirmation) Scope() string { return core.ScopeDone }

func (s *Confirmation) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	if s.env.Is(key, "select", s.Scope()) || s.env.Is(key, "close", s.Scope()) {
		return s, tea.Batch(core.MsgCmd(core.CloseModalsMsg{}), core.StatusCmd("Reserva confirmada con "+s.provider.Name)), false
	}
	return s, nil, false
}

func (s *Confirmation) View(width, height int) string {
	at := s.booking.ScheduledAt.In(s.env.Location())
	body := lipgloss.JoinVertical(lipgloss.Left,
		core.OKStyle.Render("✓ "+s.Title()),
		"",
		s.provider.Name+" te espera el "+dayLabel(at)+" a las "+at.Format("15:04"),
		"Total: "+core.Money(s.env.Currency(), s.booking.TotalCents),
		core.MutedStyle.Render("Folio "+s.booking.ID[:8]),
		"",
		core.MutedStyle.Render("enter para terminar"),
	)
	return frame(width, body)
}
