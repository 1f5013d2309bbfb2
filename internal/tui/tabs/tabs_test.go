package tabs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/camaron/internal/database/repository"
	"github.com/jask/camaron/internal/service"
	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/screens"
	"github.com/jask/camaron/internal/tui/tuitest"
)

var key = tuitest.Keys

func feed(tab core.Tab, cmd tea.Cmd) []tea.Msg {
	msgs := tuitest.Run(cmd)
	for _, msg := range msgs {
		tab.Update(msg)
	}
	return msgs
}

func firstOf[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %#v", zero, msgs)
	return zero
}

func TestHomeOverviewAndActions(t *testing.T) {
	env := tuitest.NewEnv(t)
	env.SignIn(t, "Ana López", "ana@b.com")
	home := NewHome(env.Env)
	feed(home, home.Init())

	view := home.View(100, 30)
	for _, want := range []string{"¡Hola, Ana!", "Cliente", "Mantenimiento", "Sadico Timido", "usuarios: 1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("home view missing %q:\n%s", want, view)
		}
	}

	open := firstOf[core.OpenModalMsg](t, tuitest.Run(home.Update(key("s"))))
	if _, ok := open.Screen.(*screens.ServiceSelection); !ok {
		t.Fatalf("s should open service selection, got %T", open.Screen)
	}
	home.Update(key("j"))
	open = firstOf[core.OpenModalMsg](t, tuitest.Run(home.Update(key("enter"))))
	if pl, ok := open.Screen.(*screens.ProviderList); !ok || pl.Title() != "Limpieza" {
		t.Fatalf("enter should open the selected category")
	}

	firstOf[core.LogoutMsg](t, tuitest.Run(home.Update(key("l"))))
	if env.Store.Snapshot().Authenticated() {
		t.Fatalf("l should log out")
	}
}

func TestSearchFuzzyAndOpen(t *testing.T) {
	env := tuitest.NewEnv(t)
	s := NewSearch(env.Env)
	s.Init()
	if !s.Capturing() {
		t.Fatalf("query field should start focused")
	}

	feed(s, s.Update(key("limpiesa")))
	hits := s.Hits()
	if len(hits) == 0 || hits[0].Label != "Limpieza" || hits[0].Kind != service.HitCategory {
		t.Fatalf("expected a typo to still find Limpieza, got %+v", hits)
	}

	s.Update(key("esc"))
	if s.Capturing() {
		t.Fatalf("esc should release the keyboard")
	}
	open := firstOf[core.OpenModalMsg](t, tuitest.Run(s.Update(key("enter"))))
	if pl, ok := open.Screen.(*screens.ProviderList); !ok || pl.Title() != "Limpieza" {
		t.Fatalf("unexpected screen %T", open.Screen)
	}

	s.Update(key("/"))
	for range len("limpiesa") {
		s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	feed(s, s.Update(key("ramon")))
	if len(s.Hits()) == 0 || s.Hits()[0].Kind != service.HitProvider {
		t.Fatalf("expected Ramón first, got %+v", s.Hits())
	}
	s.Update(key("esc"))
	open = firstOf[core.OpenModalMsg](t, tuitest.Run(s.Update(key("enter"))))
	if _, ok := open.Screen.(*screens.ProviderDetails); !ok {
		t.Fatalf("provider hit should open details, got %T", open.Screen)
	}
}

func TestSearchIgnoresOutdatedResults(t *testing.T) {
	env := tuitest.NewEnv(t)
	s := NewSearch(env.Env)
	s.query = "ramon"
	s.Update(searchResultMsg{query: "ram", hits: []service.SearchHit{{Label: "old"}}})
	if len(s.Hits()) != 0 {
		t.Fatalf("results for an older query must be dropped")
	}
}

func bookOne(t *testing.T, env *tuitest.Env, clientID string) repository.Booking {
	t.Helper()
	provs, err := env.Catalog.ListProviders(context.Background(), "maintenance", repository.ProviderFilters{})
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	b, err := env.Bookings.Create(context.Background(), service.BookingRequest{
		ClientID:    clientID,
		ProviderID:  provs[0].ID,
		ScheduledAt: time.Date(2030, 1, 8, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return b
}

func TestBookingsListDetailAndCancel(t *testing.T) {
	env := tuitest.NewEnv(t)
	u := env.SignIn(t, "Ana", "ana@b.com")
	created := bookOne(t, env, u.ID)

	tab := NewBookings(env.Env)
	feed(tab, tab.Init())
	if len(tab.List()) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(tab.List()))
	}
	view := tab.View(120, 20)
	if !strings.Contains(view, "Sadico Timido") || !strings.Contains(view, "pendiente") {
		t.Fatalf("bookings view:\n%s", view)
	}

	push := firstOf[core.PushScreenMsg](t, tuitest.Run(tab.Update(key("enter"))))
	detail, ok := push.Screen.(*BookingDetail)
	if !ok || !strings.Contains(detail.View(80, 20), "$15.00") {
		t.Fatalf("detail should show the total")
	}

	open := firstOf[core.OpenModalMsg](t, tuitest.Run(tab.Update(key("c"))))
	_, cmd, _ := open.Screen.Update(key("y"))
	cancelled := firstOf[BookingCancelledMsg](t, tuitest.Run(cmd))
	if cancelled.Err != nil || cancelled.ID != created.ID {
		t.Fatalf("cancel: %+v", cancelled)
	}
	detail.Update(cancelled)
	if detail.booking.Status != repository.BookingCancelled {
		t.Fatalf("detail should reflect the cancellation")
	}
	msgs := tuitest.Run(tab.Update(cancelled))
	firstOf[core.BookingsChangedMsg](t, msgs)
	feed(tab, tab.Update(core.BookingsChangedMsg{}))
	if tab.List()[0].Status != repository.BookingCancelled {
		t.Fatalf("list should reload after cancel")
	}

	status := firstOf[core.StatusMsg](t, tuitest.Run(tab.Update(key("c"))))
	if !status.IsErr || status.Text != service.ErrNotCancellable.Error() {
		t.Fatalf("a cancelled booking cannot be cancelled again: %+v", status)
	}
}

func TestCancelBookingOfAnotherUser(t *testing.T) {
	env := tuitest.NewEnv(t)
	owner := env.SignUp(t, "Owner", "owner@b.com")
	b := bookOne(t, env, owner.ID)
	env.SignIn(t, "Other", "other@b.com")

	msg := firstOf[BookingCancelledMsg](t, tuitest.Run(CancelBookingCmd(env.Env, b.ID)))
	if !errors.Is(msg.Err, service.ErrBookingNotFound) {
		t.Fatalf("expected not found, got %v", msg.Err)
	}
}

func TestProfile(t *testing.T) {
	env := tuitest.NewEnv(t)
	env.SignIn(t, "Ana López", "ana@b.com")
	p := NewProfile(env.Env)
	view := p.View(100, 20)
	if !strings.Contains(view, "Ana López") || !strings.Contains(view, "ana@b.com") {
		t.Fatalf("profile view:\n%s", view)
	}
	open := firstOf[core.OpenModalMsg](t, tuitest.Run(p.Update(key("a"))))
	if _, ok := open.Screen.(*screens.AccountSettings); !ok {
		t.Fatalf("a should open settings, got %T", open.Screen)
	}
	firstOf[core.LogoutMsg](t, tuitest.Run(p.Update(key("l"))))
	if env.Store.Snapshot().Authenticated() {
		t.Fatalf("l should log out")
	}
}
