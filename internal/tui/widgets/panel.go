package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel is a titled bordered box.
type Panel struct {
	Title   string
	Content string
	Focused bool
}

func (p Panel) Render(width, height int) string {
	if width < 4 || height < 3 {
		return ""
	}
	border := lipgloss.Color("#585b70")
	if p.Focused {
		border = lipgloss.Color("#89b4fa")
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Height(height - 2)
	innerW := max(1, width-4)
	lines := strings.Split(p.Content, "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, innerW, "…")
	}
	body := strings.Join(splitToLines(strings.Join(lines, "\n"), height-2), "\n")
	out := style.Render(body)
	if p.Title == "" {
		return out
	}
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true).Render(" " + p.Title + " ")
	rows := strings.Split(out, "\n")
	rows[0] = overlayTitle(rows[0], title)
	return strings.Join(rows, "\n")
}

func overlayTitle(top, title string) string {
	const offset = 2
	w := ansi.StringWidth(top)
	tw := ansi.StringWidth(title)
	if tw+offset >= w {
		return top
	}
	return ansi.Truncate(top, offset, "") + title + dropColumns(top, offset+tw)
}

// List renders items with a cursor marker on the selected row, scrolling so it stays visible.
func List(items []string, cursor, height int) string {
	if len(items) == 0 {
		return ""
	}
	if height <= 0 {
		height = len(items)
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(len(items), start+height)
	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == cursor {
			out = append(out, selected.Render("▶ "+items[i]))
			continue
		}
		out = append(out, "  "+items[i])
	}
	return strings.Join(out, "\n")
}
