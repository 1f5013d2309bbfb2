package tabs

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/database/repository"
	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/screens"
	"github.com/jask/camaron/internal/tui/widgets"
)

var statusLabels = map[string]string{
	repository.BookingPending:    "pendiente",
	repository.BookingConfirmed:  "confirmada",
	repository.BookingInProgress: "en curso",
	repository.BookingCompleted:  "completada",
	repository.BookingCancelled:  "cancelada",
}

func statusLabel(status string) string {
	label, ok := statusLabels[status]
	if !ok {
		label = status
	}
	switch status {
	case repository.BookingCancelled:
		return core.ErrorStyle.Render(label)
	case repository.BookingCompleted, repository.BookingConfirmed:
		return core.OKStyle.Render(label)
	default:
		return core.WarnStyle.Render(label)
	}
}

func cancellable(b repository.Booking) bool {
	return b.Status == repository.BookingPending || b.Status == repository.BookingConfirmed
}

// BookingCancelledMsg reports the outcome of a cancel request.
type BookingCancelledMsg struct {
	ID  string
	Err error
}

// CancelBookingCmd cancels id on behalf of the signed-in user.
func CancelBookingCmd(env *core.Env, id string) tea.Cmd {
	return func() tea.Msg {
		u := env.CurrentUser()
		if u == nil {
			return BookingCancelledMsg{ID: id, Err: fmt.Errorf("sesión no iniciada")}
		}
		return BookingCancelledMsg{ID: id, Err: env.Bookings.Cancel(env.Ctx, u.ID, id)}
	}
}

func confirmCancel(env *core.Env, b repository.Booking, provider string) tea.Cmd {
	at := b.ScheduledAt.In(env.Location())
	prompt := fmt.Sprintf("¿Cancelar la reserva con %s el %s?", provider, at.Format("02/01 15:04"))
	return core.MsgCmd(core.OpenModalMsg{Screen: screens.NewConfirm(env, "Cancelar reserva", prompt, CancelBookingCmd(env, b.ID))})
}

type Bookings struct {
	env       *core.Env
	list      []repository.Booking
	providers map[string]string
	cursor    int
	loaded    bool
	err       error
	now       func() time.Time
}

type bookingsLoadedMsg struct {
	list      []repository.Booking
	providers map[string]string
	err       error
}

func NewBookings(env *core.Env) *Bookings {
	return &Bookings{env: env, providers: map[string]string{}, now: time.Now}
}

func (b *Bookings) ID() string    { return "bookings" }
func (b *Bookings) Title() string { return "Reservas" }
func (b *Bookings) Scope() string { return core.ScopeBookings }

// List returns the loaded bookings, newest first.
func (b *Bookings) List() []repository.Booking { return b.list }

func (b *Bookings) Init() tea.Cmd {
	return func() tea.Msg {
		u := b.env.CurrentUser()
		if u == nil {
			return bookingsLoadedMsg{}
		}
		list, err := b.env.Bookings.ListForUser(b.env.Ctx, u.ID)
		if err != nil {
			return bookingsLoadedMsg{err: err}
		}
		provs, err := b.env.Catalog.ListProviders(b.env.Ctx, "", repository.ProviderFilters{})
		if err != nil {
			return bookingsLoadedMsg{err: err}
		}
		names := make(map[string]string, len(provs))
		for _, p := range provs {
			names[p.ID] = p.Name
		}
		return bookingsLoadedMsg{list: list, providers: names}
	}
}

func (b *Bookings) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case bookingsLoadedMsg:
		b.list, b.err, b.loaded = msg.list, msg.err, true
		if msg.providers != nil {
			b.providers = msg.providers
		}
		b.cursor = min(b.cursor, max(0, len(b.list)-1))
	case core.BookingsChangedMsg:
		return b.Init()
	case BookingCancelledMsg:
		if msg.Err != nil {
			return core.ErrorCmd(msg.Err)
		}
		return tea.Batch(core.StatusCmd("Reserva cancelada"), core.MsgCmd(core.BookingsChangedMsg{}))
	case tea.KeyMsg:
		switch {
		case b.env.Is(msg, "down", b.Scope()):
			b.cursor = min(b.cursor+1, max(0, len(b.list)-1))
		case b.env.Is(msg, "up", b.Scope()):
			b.cursor = max(b.cursor-1, 0)
		case b.env.Is(msg, "refresh", b.Scope()):
			return b.Init()
		case b.env.Is(msg, "select", b.Scope()):
			if bk, ok := b.selected(); ok {
				return core.MsgCmd(core.PushScreenMsg{Screen: NewBookingDetail(b.env, bk, b.providers[bk.ProviderID])})
			}
		case b.env.Is(msg, "cancel-booking", b.Scope()):
			bk, ok := b.selected()
			if !ok {
				return nil
			}
			if !cancellable(bk) {
				return core.ErrorCmd(service.ErrNotCancellable)
			}
			return confirmCancel(b.env, bk, b.providers[bk.ProviderID])
		}
	}
	return nil
}

func (b *Bookings) selected() (repository.Booking, bool) {
	if b.cursor < 0 || b.cursor >= len(b.list) {
		return repository.Booking{}, false
	}
	return b.list[b.cursor], true
}

func (b *Bookings) View(width, height int) string {
	var body string
	switch {
	case b.err != nil:
		body = core.ErrorStyle.Render(b.err.Error())
	case !b.loaded:
		body = core.MutedStyle.Render("Cargando…")
	case len(b.list) == 0:
		body = core.MutedStyle.Render("Aún no tienes reservas. Ve a Inicio para reservar un servicio.")
	default:
		now := b.now()
		loc := b.env.Location()
		items := make([]string, 0, len(b.list))
		for _, bk := range b.list {
			at := bk.ScheduledAt.In(loc)
			items = append(items, fmt.Sprintf("%s  %-18s %-10s %8s  %s",
				at.Format("02/01 15:04"),
				b.providers[bk.ProviderID],
				statusLabel(bk.Status),
				core.Money(b.env.Currency(), bk.TotalCents),
				core.MutedStyle.Render(core.RelTime(bk.ScheduledAt, now))))
		}
		body = widgets.List(items, b.cursor, max(1, height-3))
	}
	return widgets.Panel{Title: "Mis reservas", Content: body, Focused: true}.Render(width, height)
}

// BookingDetail is pushed on the bookings tab's own stack.
type BookingDetail struct {
	env      *core.Env
	booking  repository.Booking
	provider string
}

func NewBookingDetail(env *core.Env, b repository.Booking, provider string) *BookingDetail {
	return &BookingDetail{env: env, booking: b, provider: provider}
}

func (d *BookingDetail) Title() string { return "Reserva " + shortID(d.booking.ID) }
func (d *BookingDetail) Scope() string { return core.ScopeBooking }

func (d *BookingDetail) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case BookingCancelledMsg:
		if msg.ID == d.booking.ID && msg.Err == nil {
			d.booking.Status = repository.BookingCancelled
		}
	case tea.KeyMsg:
		switch {
		case d.env.Is(msg, "close", d.Scope()):
			return d, nil, true
		case d.env.Is(msg, "cancel-booking", d.Scope()):
			if !cancellable(d.booking) {
				return d, core.ErrorCmd(service.ErrNotCancellable), false
			}
			return d, confirmCancel(d.env, d.booking, d.provider), false
		}
	}
	return d, nil, false
}

func (d *BookingDetail) View(width, height int) string {
	b := d.booking
	loc := d.env.Location()
	at := b.ScheduledAt.In(loc)
	end := at.Add(time.Duration(b.DurationMinutes) * time.Minute)
	lines := []string{
		core.LabelStyle.Render(d.provider),
		"Estado: " + statusLabel(b.Status),
		"Fecha: " + at.Format("02/01/2006") + " " + at.Format("15:04") + " – " + end.Format("15:04"),
		"Total: " + core.Money(d.env.Currency(), b.TotalCents),
		"Creada: " + core.RelTime(b.CreatedAt, time.Now()),
	}
	if b.Notes != nil {
		lines = append(lines, "", "Notas:", lipgloss.NewStyle().Width(max(10, width-6)).Render(*b.Notes))
	}
	hint := "esc volver"
	if cancellable(b) {
		hint = "c cancelar · " + hint
	}
	lines = append(lines, "", core.MutedStyle.Render(hint))
	return widgets.Panel{Title: d.Title(), Content: strings.Join(lines, "\n"), Focused: true}.Render(width, height)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
