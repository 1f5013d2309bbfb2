package core

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{
		{Keys: []string{"ctrl+r"}, Action: "to-register", Scopes: []string{ScopeSignIn}},
		{Keys: []string{"1"}, Action: "switch-tab-1", Scopes: []string{"main:*"}},
		{Keys: []string{"ctrl+c"}, Action: "quit", Scopes: []string{"*"}},
	})
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlR}, "to-register", ScopeSignIn) {
		t.Fatalf("expected ctrl+r on sign in")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlR}, "to-register", ScopeRegister) {
		t.Fatalf("did not expect ctrl+r on register")
	}
	one := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}}
	if !reg.IsAction(one, "switch-tab-1", ScopeBookings) {
		t.Fatalf("expected prefix scope to match a main tab")
	}
	if reg.IsAction(one, "switch-tab-1", ScopeSignIn) {
		t.Fatalf("tab keys must not leak into the auth flow")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlC}, "quit", ScopeSplash) {
		t.Fatalf("expected wildcard quit")
	}
}

func TestDefaultBindingsCoverFooter(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	footer := ansi.Strip(RenderFooter(200, reg.BindingsForScope(ScopeSplash)))
	if !strings.Contains(footer, "dev login") {
		t.Fatalf("splash footer missing bypass hint: %q", footer)
	}
	if strings.Contains(footer, "logout") {
		t.Fatalf("splash footer shows main flow keys: %q", footer)
	}
}

type stubScreen struct {
	title string
	pop   bool
	seen  int
}

func (s *stubScreen) Update(tea.Msg) (Screen, tea.Cmd, bool) {
	s.seen++
	return s, nil, s.pop
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Scope() string        { return ScopeConfirm }
func (s *stubScreen) Title() string        { return s.title }

func TestScreenStack(t *testing.T) {
	var st ScreenStack
	if _, ok := st.UpdateTop(nil); ok {
		t.Fatalf("empty stack should not handle messages")
	}
	a := &stubScreen{title: "a"}
	b := &stubScreen{title: "b", pop: true}
	st.Push(a)
	st.Push(nil)
	st.Push(b)
	if st.Len() != 2 {
		t.Fatalf("expected 2 screens, got %d", st.Len())
	}
	if got := strings.Join(st.Titles(), ">"); got != "a>b" {
		t.Fatalf("unexpected titles %q", got)
	}
	if _, ok := st.UpdateTop(nil); !ok || st.Len() != 1 || b.seen != 1 {
		t.Fatalf("expected b to receive the message and pop itself")
	}
	if st.Top() != a {
		t.Fatalf("expected a on top")
	}
	st.Clear()
	if st.Top() != nil {
		t.Fatalf("expected empty stack")
	}
}

func TestMoneyAndStars(t *testing.T) {
	if got := Money("$", 1550); got != "$15.50" {
		t.Fatalf("Money = %q", got)
	}
	if got := Money("€", -5); got != "-€0.05" {
		t.Fatalf("Money negative = %q", got)
	}
	if got := Stars(4.5); got != "★★★★★" {
		t.Fatalf("Stars(4.5) = %q", got)
	}
	if got := Stars(3.2); got != "★★★☆☆" {
		t.Fatalf("Stars(3.2) = %q", got)
	}
}

func TestStatusBarPadsToWidth(t *testing.T) {
	bar := RenderStatusBar(30, "", false)
	if ansi.StringWidth(bar) != 30 {
		t.Fatalf("expected width 30, got %d", ansi.StringWidth(bar))
	}
	if !strings.Contains(ansi.Strip(bar), "Listo") {
		t.Fatalf("expected idle text")
	}
}

func TestRelTime(t *testing.T) {
	now := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"hace 2 horas": now.Add(-2 * time.Hour),
		"en 3 días":    now.Add(3 * 24 * time.Hour),
		"en 1 minuto":  now.Add(90 * time.Second),
		"ahora":        now,
	}
	for want, at := range cases {
		if got := RelTime(at, now); got != want {
			t.Fatalf("RelTime(%v) = %q, want %q", at, got, want)
		}
	}
	if got := Count(1234); got != "1,234" {
		t.Fatalf("Count = %q", got)
	}
}
