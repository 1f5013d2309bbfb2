package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/tui/core"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical list of labelled text inputs with one focused at a time.
type form struct {
	fields []field
	focus  int
	errs   map[string]string
}

func newField(key, label, placeholder string, secret bool) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	in.CharLimit = 80
	in.Width = 36
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return field{key: key, label: label, input: in}
}

func newForm(fields ...field) *form {
	f := &form{fields: fields, errs: map[string]string{}}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i%len(f.fields) + len(f.fields)) % len(f.fields)
	f.focus = i
	var cmd tea.Cmd
	for idx := range f.fields {
		if idx == i {
			cmd = f.fields[idx].input.Focus()
		} else {
			f.fields[idx].input.Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f *form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) setValue(key, v string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(v)
		}
	}
}

func (f *form) focusKey(key string) tea.Cmd {
	for i, fl := range f.fields {
		if fl.key == key {
			return f.setFocus(i)
		}
	}
	return nil
}

// update forwards a key to the focused input. It reports whether the
// value changed.
func (f *form) update(msg tea.Msg) (tea.Cmd, bool) {
	if len(f.fields) == 0 {
		return nil, false
	}
	fl := &f.fields[f.focus]
	before := fl.input.Value()
	var cmd tea.Cmd
	fl.input, cmd = fl.input.Update(msg)
	changed := fl.input.Value() != before
	if changed {
		delete(f.errs, fl.key)
	}
	return cmd, changed
}

func (f *form) view() string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := core.MutedStyle.Render(fl.label)
		if i == f.focus {
			label = core.LabelStyle.Render(fl.label)
		}
		b.WriteString(label + "\n")
		b.WriteString(fl.input.View() + "\n")
		if msg := f.errs[fl.key]; msg != "" {
			b.WriteString(core.ErrorStyle.Render("  "+msg) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func checkbox(label string, on bool, hint string) string {
	box := "[ ]"
	if on {
		box = core.OKStyle.Render("[x]")
	}
	return box + " " + label + " " + core.MutedStyle.Render("("+hint+")")
}

// frame wraps content in a rounded box no wider than width.
func frame(width int, content string) string {
	w := min(max(40, lipgloss.Width(content)+6), max(4, width))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(core.ColorAccent).
		Padding(1, 2).
		Width(w - 2).
		Render(content)
}

// card centers a framed box inside width x height.
func card(width, height int, content string) string {
	return lipgloss.Place(max(1, width), max(1, height), lipgloss.Center, lipgloss.Center, frame(width, content))
}
