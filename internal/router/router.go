// Package router decides which top-level screen tree is mounted.
//
// The only input is the session's authenticated flag. The router starts on
// the splash, moves to the auth flow once the splash timer fires (if still
// signed out), and to the main flow whenever the flag is true.
package router

import (
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type Route int

const (
	Splash Route = iota
	AuthFlow
	MainFlow
)

func (r Route) String() string {
	switch r {
	case Splash:
		return "splash"
	case AuthFlow:
		return "auth"
	case MainFlow:
		return "main"
	default:
		return "unknown"
	}
}

// AuthScreen is the screen shown inside the auth flow.
type AuthScreen int

const (
	SignIn AuthScreen = iota
	Register
)

// DefaultSplash is how long the splash stays up before the auth flow mounts.
const DefaultSplash = 3 * time.Second

// SplashElapsedMsg is delivered by the Cmd returned from Start. A message
// from a cancelled or superseded timer carries an old generation and is ignored.
type SplashElapsedMsg struct {
	Gen uint64
}

type Transition struct {
	From   Route
	To     Route
	Reason string
}

type Router struct {
	splash        time.Duration
	logger        *log.Logger
	route         Route
	auth          AuthScreen
	authenticated bool
	gen           uint64
	armed         bool
	history       []Transition
}

func New(splash time.Duration, logger *log.Logger) *Router {
	if splash <= 0 {
		splash = DefaultSplash
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Router{splash: splash, logger: logger, route: Splash}
}

func (r *Router) Route() Route { return r.route }

func (r *Router) AuthScreen() AuthScreen { return r.auth }

// SplashPending reports whether a splash timer is armed and not yet fired or cancelled.
func (r *Router) SplashPending() bool { return r.armed }

// History returns every route change so far, oldest first.
func (r *Router) History() []Transition {
	return append([]Transition(nil), r.history...)
}

// Start arms the splash timer. It returns nil when the splash is not showing.
func (r *Router) Start() tea.Cmd {
	if r.route != Splash {
		return nil
	}
	r.gen++
	r.armed = true
	gen := r.gen
	return tea.Tick(r.splash, func(time.Time) tea.Msg {
		return SplashElapsedMsg{Gen: gen}
	})
}

// Observe feeds the current authenticated flag. It must be called on every
// session change; it reports whether the route changed.
func (r *Router) Observe(authenticated bool) bool {
	r.authenticated = authenticated
	switch r.route {
	case Splash:
		if authenticated {
			r.cancelSplash()
			return r.moveTo(MainFlow, "authenticated during splash")
		}
	case AuthFlow:
		if authenticated {
			return r.moveTo(MainFlow, "authenticated")
		}
	case MainFlow:
		if !authenticated {
			r.auth = SignIn
			return r.moveTo(AuthFlow, "signed out")
		}
	}
	return false
}

// SplashElapsed handles the timer message. Stale generations are ignored.
func (r *Router) SplashElapsed(msg SplashElapsedMsg) bool {
	if !r.armed || msg.Gen != r.gen {
		r.logger.Printf("router: ignoring splash tick #%d", msg.Gen)
		return false
	}
	r.armed = false
	if r.route != Splash || r.authenticated {
		return false
	}
	r.auth = SignIn
	return r.moveTo(AuthFlow, "splash elapsed")
}

// ShowAuthScreen switches between sign-in and register inside the auth flow.
func (r *Router) ShowAuthScreen(s AuthScreen) {
	if r.route == AuthFlow {
		r.auth = s
	}
}

func (r *Router) cancelSplash() {
	if r.armed {
		r.armed = false
		r.gen++
	}
}

func (r *Router) moveTo(to Route, reason string) bool {
	if r.route == to {
		return false
	}
	t := Transition{From: r.route, To: to, Reason: reason}
	r.history = append(r.history, t)
	r.route = to
	r.logger.Printf("router: %s -> %s (%s)", t.From, t.To, reason)
	return true
}
