// Package tui is the root Bubble Tea model. It mounts the splash, the auth
// flow or the main flow depending on the router, and owns the tab stacks and
// the modal stack of the main flow.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/router"
	"github.com/jask/camaron/internal/session"
	"github.com/jask/camaron/internal/tui/core"
	"github.com/jask/camaron/internal/tui/screens"
	"github.com/jask/camaron/internal/tui/tabs"
	"github.com/jask/camaron/internal/tui/widgets"
)

type Model struct {
	env    *core.Env
	router *router.Router

	session     session.Session
	sub         <-chan session.Session
	unsubscribe func()

	splash   *screens.Splash
	signIn   *screens.SignIn
	register *screens.Register

	tabs   []core.Tab
	stacks []core.ScreenStack
	active int
	modals core.ScreenStack

	width     int
	height    int
	status    string
	statusErr bool
	quitting  bool
}

// New subscribes to the session store and starts on the splash.
func New(env *core.Env, r *router.Router) Model {
	if env.Keys == nil {
		env.Keys = core.NewKeyRegistry(core.DefaultKeyBindings())
	}
	sub, unsubscribe := env.Store.Subscribe()
	m := Model{
		env:         env,
		router:      r,
		session:     env.Store.Snapshot(),
		sub:         sub,
		unsubscribe: unsubscribe,
		splash:      screens.NewSplash(env),
		width:       100,
		height:      32,
	}
	if r.Observe(m.session.Authenticated()) {
		m.onRouteChange()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Start(), waitForSession(m.sub)}
	for _, t := range m.tabs {
		cmds = append(cmds, t.Init())
	}
	return tea.Batch(cmds...)
}

func waitForSession(ch <-chan session.Session) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return core.SessionMsg{Session: s}
	}
}

func (m Model) Route() router.Route { return m.router.Route() }
func (m Model) ActiveTab() int      { return m.active }
func (m Model) ModalDepth() int     { return m.modals.Len() }
func (m Model) Status() string      { return m.status }

// TabDepth returns how many screens are pushed on the active tab.
func (m Model) TabDepth() int {
	if m.active >= len(m.stacks) {
		return 0
	}
	return m.stacks[m.active].Len()
}

func (m Model) ActiveScope() string {
	switch m.router.Route() {
	case router.Splash:
		return core.ScopeSplash
	case router.AuthFlow:
		return m.authScreen().Scope()
	}
	if top := m.modals.Top(); top != nil {
		return top.Scope()
	}
	if top := m.tabTop(); top != nil {
		return top.Scope()
	}
	if len(m.tabs) == 0 {
		return "main"
	}
	return m.tabs[m.active].Scope()
}

func (m Model) authScreen() core.Screen {
	if m.router.AuthScreen() == router.Register {
		return m.register
	}
	return m.signIn
}

func (m Model) tabTop() core.Screen {
	if m.active >= len(m.stacks) {
		return nil
	}
	return m.stacks[m.active].Top()
}

// onRouteChange mounts fresh screens for the route just entered.
func (m *Model) onRouteChange() tea.Cmd {
	m.modals.Clear()
	switch m.router.Route() {
	case router.MainFlow:
		m.signIn, m.register = nil, nil
		m.tabs = []core.Tab{
			tabs.NewHome(m.env),
			tabs.NewSearch(m.env),
			tabs.NewBookings(m.env),
			tabs.NewProfile(m.env),
		}
		m.stacks = make([]core.ScreenStack, len(m.tabs))
		m.active = 0
		cmds := make([]tea.Cmd, 0, len(m.tabs))
		for _, t := range m.tabs {
			cmds = append(cmds, t.Init())
		}
		return tea.Batch(cmds...)
	case router.AuthFlow:
		m.tabs, m.stacks, m.active = nil, nil, 0
		m.signIn = screens.NewSignIn(m.env)
		m.register = screens.NewRegister(m.env)
	}
	return nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case core.StatusMsg:
		m.setStatus(msg.Text, msg.IsErr)
		return m, nil
	case core.SessionMsg:
		m.session = msg.Session
		cmds := []tea.Cmd{waitForSession(m.sub)}
		if m.router.Observe(msg.Session.Authenticated()) {
			cmds = append(cmds, m.onRouteChange())
		}
		return m, tea.Batch(cmds...)
	case router.SplashElapsedMsg:
		if m.router.SplashElapsed(msg) {
			return m, m.onRouteChange()
		}
		return m, nil
	case core.ShowAuthScreenMsg:
		m.router.ShowAuthScreen(msg.Screen)
		if msg.Screen == router.Register {
			m.register = screens.NewRegister(m.env)
		} else {
			m.signIn = screens.NewSignIn(m.env)
		}
		m.env.Store.ClearError()
		return m, nil
	case core.AuthResultMsg:
		return m.handleAuthResult(msg)
	case core.OpenModalMsg:
		m.modals.Push(msg.Screen)
		return m, core.InitCmd(msg.Screen)
	case core.CloseModalsMsg:
		m.modals.Clear()
		return m, nil
	case core.PushScreenMsg:
		if m.active < len(m.stacks) {
			m.stacks[m.active].Push(msg.Screen)
		}
		return m, core.InitCmd(msg.Screen)
	case core.TabSwitchMsg:
		m.switchTab(msg.Index)
		return m, nil
	case core.LogoutMsg:
		m.setStatus("Sesión cerrada", false)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	cmd := m.broadcast(msg)
	return m, cmd
}

func (m Model) handleAuthResult(msg core.AuthResultMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.register != nil {
		_, cmd, _ = m.register.Update(msg)
	}
	switch {
	case errors.Is(msg.Err, session.ErrStale):
	case msg.Err != nil:
		m.setStatus(msg.Err.Error(), true)
	case msg.Op == "register" && msg.User != nil:
		m.setStatus(fmt.Sprintf("¡Registro exitoso! Bienvenido %s", msg.User.Name), false)
	case msg.User != nil:
		m.setStatus("Bienvenido, "+msg.User.Name, false)
	}
	return m, cmd
}

func (m *Model) switchTab(index int) {
	if index < 0 || index >= len(m.tabs) {
		return
	}
	m.active = index
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.router.Route() {
	case router.Splash:
		_, cmd, _ := m.splash.Update(msg)
		return m, cmd
	case router.AuthFlow:
		_, cmd, _ := m.authScreen().Update(msg)
		return m, cmd
	}

	if cmd, ok := m.modals.UpdateTop(msg); ok {
		return m, cmd
	}
	top := m.tabTop()
	var tab core.Tab
	if len(m.tabs) > 0 {
		tab = m.tabs[m.active]
	}
	capturing := core.Capturing(top) || (top == nil && core.Capturing(tab))
	if !capturing {
		scope := m.ActiveScope()
		if m.env.Is(msg, "quit", scope) {
			return m.quit()
		}
		for i := range m.tabs {
			if m.env.Is(msg, fmt.Sprintf("switch-tab-%d", i+1), scope) {
				m.switchTab(i)
				return m, nil
			}
		}
	}
	if m.active < len(m.stacks) {
		if cmd, ok := m.stacks[m.active].UpdateTop(msg); ok {
			return m, cmd
		}
	}
	if tab != nil {
		return m, tab.Update(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// broadcast hands a non-key message to everything mounted so background
// results reach screens that are not on top.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	switch m.router.Route() {
	case router.Splash:
		_, cmd, _ := m.splash.Update(msg)
		cmds = append(cmds, cmd)
	case router.AuthFlow:
		_, cmd, _ := m.authScreen().Update(msg)
		cmds = append(cmds, cmd)
	case router.MainFlow:
		for i, t := range m.tabs {
			cmds = append(cmds, t.Update(msg))
			cmds = append(cmds, m.stacks[i].Broadcast(msg)...)
		}
		cmds = append(cmds, m.modals.Broadcast(msg)...)
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return "¡Hasta pronto!\n"
	}
	width := max(1, m.width)
	var titles []string
	crumb := ""
	switch m.router.Route() {
	case router.AuthFlow:
		crumb = m.authScreen().Title()
	case router.MainFlow:
		for _, t := range m.tabs {
			titles = append(titles, t.Title())
		}
		if m.active < len(m.stacks) {
			crumb = strings.Join(m.stacks[m.active].Titles(), " › ")
		}
	}
	header := core.RenderHeader(width, titles, m.active, crumb)
	status := core.RenderStatusBar(width, m.status, m.statusErr)
	footer := core.RenderFooter(width, m.env.Keys.BindingsForScope(m.ActiveScope()))
	bodyHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))

	var body string
	if bodyHeight > 0 {
		body = m.renderBody(width, bodyHeight)
	}
	view := strings.Join([]string{header, status, widgets.FitHeight(body, bodyHeight), footer}, "\n")
	if bodyHeight == 0 {
		view = strings.Join([]string{header, status, footer}, "\n")
	}
	view = widgets.FitHeight(view, max(1, m.height))
	return core.AppStyle.Width(width).MaxWidth(width).Render(view)
}

func (m Model) renderBody(width, height int) string {
	switch m.router.Route() {
	case router.Splash:
		return m.splash.View(width, height)
	case router.AuthFlow:
		return m.authScreen().View(width, height)
	}
	var body string
	if top := m.tabTop(); top != nil {
		body = top.View(width, height)
	} else if len(m.tabs) > 0 {
		body = m.tabs[m.active].View(width, height)
	}
	if top := m.modals.Top(); top != nil {
		mw := min(max(30, width-8), 76)
		mh := min(max(8, height-4), 24)
		body = widgets.Overlay(body, top.View(mw, mh), width, height)
	}
	return body
}
