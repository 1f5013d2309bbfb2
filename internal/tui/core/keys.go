package core

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
		// "main:*" matches every tab and tab screen.
		if prefix, ok := strings.CutSuffix(s, "*"); ok && prefix != "" && strings.HasPrefix(scope, prefix) {
			return true
		}
	}
	return false
}

// Scopes used across the app.
const (
	ScopeSplash   = "splash"
	ScopeSignIn   = "auth:signin"
	ScopeRegister = "auth:register"
	ScopeHome     = "main:home"
	ScopeSearch   = "main:search"
	ScopeBookings = "main:bookings"
	ScopeProfile  = "main:profile"
	ScopeBooking  = "main:booking-detail"
	ScopeConfirm  = "modal:confirm"

	ScopeServices  = "modal:services"
	ScopeProviders = "modal:providers"
	ScopeDetails   = "modal:provider"
	ScopeCalendar  = "modal:calendar"
	ScopeReview    = "modal:review"
	ScopeDone      = "modal:done"
	ScopeSettings  = "modal:settings"
)

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"ctrl+c"}, Action: "quit", Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"b"}, Action: "bypass", Description: "dev login", Scopes: []string{ScopeSplash}},
		{Keys: []string{"ctrl+b"}, Action: "bypass", Description: "dev login", Scopes: []string{"auth:*"}},
		{Keys: []string{"tab", "down"}, Action: "field-next", Description: "next field", Scopes: []string{"auth:*"}},
		{Keys: []string{"shift+tab", "up"}, Action: "field-prev", Description: "prev field", Scopes: []string{"auth:*"}},
		{Keys: []string{"enter"}, Action: "submit", Description: "submit", Scopes: []string{"auth:*"}},
		{Keys: []string{"ctrl+r"}, Action: "to-register", Description: "create account", Scopes: []string{ScopeSignIn}},
		{Keys: []string{"esc"}, Action: "to-signin", Description: "back to sign in", Scopes: []string{ScopeRegister}},
		{Keys: []string{"ctrl+t"}, Action: "toggle-provider", Description: "provider", Scopes: []string{ScopeRegister}},
		{Keys: []string{"ctrl+a"}, Action: "toggle-terms", Description: "accept terms", Scopes: []string{ScopeRegister}},
		{Keys: []string{"1"}, Action: "switch-tab-1", Description: "home", Scopes: []string{"main:*"}},
		{Keys: []string{"2"}, Action: "switch-tab-2", Description: "search", Scopes: []string{"main:*"}},
		{Keys: []string{"3"}, Action: "switch-tab-3", Description: "bookings", Scopes: []string{"main:*"}},
		{Keys: []string{"4"}, Action: "switch-tab-4", Description: "profile", Scopes: []string{"main:*"}},
		{Keys: []string{"q"}, Action: "quit", Description: "quit", Scopes: []string{"main:*"}},
		{Keys: []string{"j", "down"}, Action: "down", Description: "down", Scopes: []string{ScopeHome, ScopeSearch, ScopeBookings, "modal*"}},
		{Keys: []string{"k", "up"}, Action: "up", Description: "up", Scopes: []string{ScopeHome, ScopeSearch, ScopeBookings, "modal*"}},
		{Keys: []string{"enter"}, Action: "select", Description: "select", Scopes: []string{ScopeHome, ScopeSearch, ScopeBookings, "modal*"}},
		{Keys: []string{"/"}, Action: "focus-search", Description: "edit query", Scopes: []string{ScopeSearch}},
		{Keys: []string{"s"}, Action: "search", Description: "search", Scopes: []string{ScopeHome}},
		{Keys: []string{"l"}, Action: "logout", Description: "logout", Scopes: []string{ScopeHome, ScopeProfile}},
		{Keys: []string{"r"}, Action: "refresh", Description: "refresh", Scopes: []string{ScopeHome, ScopeBookings}},
		{Keys: []string{"c"}, Action: "cancel-booking", Description: "cancel booking", Scopes: []string{ScopeBookings, ScopeBooking}},
		{Keys: []string{"a"}, Action: "settings", Description: "settings", Scopes: []string{ScopeProfile}},
		{Keys: []string{"esc"}, Action: "close", Description: "back", Scopes: []string{"modal*", ScopeBooking}},
		{Keys: []string{"e"}, Action: "filter-elite", Description: "elite", Scopes: []string{ScopeProviders}},
		{Keys: []string{"r"}, Action: "filter-rating", Description: "4.5+", Scopes: []string{ScopeProviders}},
		{Keys: []string{"m"}, Action: "filter-rate", Description: "max rate", Scopes: []string{ScopeProviders}},
		{Keys: []string{"l", "right"}, Action: "day-next", Description: "next day", Scopes: []string{ScopeCalendar}},
		{Keys: []string{"h", "left"}, Action: "day-prev", Description: "prev day", Scopes: []string{ScopeCalendar}},
		{Keys: []string{"+", "="}, Action: "longer", Description: "longer", Scopes: []string{ScopeCalendar}},
		{Keys: []string{"-"}, Action: "shorter", Description: "shorter", Scopes: []string{ScopeCalendar}},
		{Keys: []string{"tab"}, Action: "field-next", Description: "next field", Scopes: []string{ScopeSettings}},
		{Keys: []string{"shift+tab"}, Action: "field-prev", Description: "prev field", Scopes: []string{ScopeSettings}},
		{Keys: []string{"ctrl+s", "enter"}, Action: "save", Description: "save", Scopes: []string{ScopeSettings}},
		{Keys: []string{"ctrl+r"}, Action: "reset-accounts", Description: "reset demo data", Scopes: []string{ScopeSettings}},
		{Keys: []string{"y"}, Action: "confirm", Description: "yes", Scopes: []string{ScopeConfirm}},
		{Keys: []string{"n"}, Action: "close", Description: "no", Scopes: []string{ScopeConfirm}},
	}
}
