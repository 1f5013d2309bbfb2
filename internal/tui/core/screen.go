package core

import tea "github.com/charmbracelet/bubbletea"

// Screen is a full-body view pushed on a stack. Update returns pop=true to
// remove itself.
type Screen interface {
	Update(msg tea.Msg) (Screen, tea.Cmd, bool)
	View(width, height int) string
	Scope() string
	Title() string
}

// Tab is one of the main flow's top-level sections.
type Tab interface {
	ID() string
	Title() string
	Scope() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}

type ScreenStack struct {
	items []Screen
}

func (s *ScreenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

func (s *ScreenStack) Pop() Screen {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

func (s ScreenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s ScreenStack) Len() int {
	return len(s.items)
}

// Titles lists the stack bottom to top, used for breadcrumbs.
func (s ScreenStack) Titles() []string {
	out := make([]string, 0, len(s.items))
	for _, sc := range s.items {
		out = append(out, sc.Title())
	}
	return out
}

func (s *ScreenStack) Clear() {
	s.items = nil
}

// UpdateTop forwards msg to the top screen, replacing or popping it as asked.
// It reports whether a screen was there to receive the message.
func (s *ScreenStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	top := s.Top()
	if top == nil {
		return nil, false
	}
	next, cmd, pop := top.Update(msg)
	if pop {
		s.Pop()
		return cmd, true
	}
	if next != nil {
		s.items[len(s.items)-1] = next
	}
	return cmd, true
}

// InputCapturer is implemented by tabs and screens that own a focused text
// field. While Capturing is true the shell skips its global keys.
type InputCapturer interface {
	Capturing() bool
}

// Capturing reports whether v is an InputCapturer that wants raw keys.
func Capturing(v any) bool {
	c, ok := v.(InputCapturer)
	return ok && c.Capturing()
}

// Initializer is implemented by screens that load data when first shown.
type Initializer interface {
	Init() tea.Cmd
}

func InitCmd(v any) tea.Cmd {
	if i, ok := v.(Initializer); ok {
		return i.Init()
	}
	return nil
}

// Broadcast delivers a non-key message to every screen in the stack so that
// results of background loads reach screens that are no longer on top.
func (s *ScreenStack) Broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i := 0; i < len(s.items); i++ {
		next, cmd, _ := s.items[i].Update(msg)
		if next != nil {
			s.items[i] = next
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
