package core

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/camaron/internal/router"
	"github.com/jask/camaron/internal/session"
)

type StatusMsg struct {
	Text  string
	IsErr bool
}

// SessionMsg carries a new session snapshot from the store subscription.
type SessionMsg struct {
	Session session.Session
}

// AuthResultMsg reports how a register, login or bypass call finished.
// Err is nil on success and session.ErrStale when the result was discarded.
type AuthResultMsg struct {
	Op   string
	User *session.User
	Err  error
}

// ShowAuthScreenMsg switches between sign-in and register.
type ShowAuthScreenMsg struct {
	Screen router.AuthScreen
}

// PushScreenMsg pushes onto the active tab's own stack.
type PushScreenMsg struct {
	Screen Screen
}

// OpenModalMsg pushes onto the global modal stack drawn above the tabs.
type OpenModalMsg struct {
	Screen Screen
}

// CloseModalsMsg empties the modal stack.
type CloseModalsMsg struct{}

type TabSwitchMsg struct {
	Index int
}

// BookingsChangedMsg asks anything showing bookings to reload.
type BookingsChangedMsg struct{}

type LogoutMsg struct{}

func StatusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		if err == nil {
			return StatusMsg{Text: "", IsErr: false}
		}
		return StatusMsg{Text: err.Error(), IsErr: true}
	}
}

func MsgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
