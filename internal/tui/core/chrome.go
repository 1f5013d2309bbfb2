package core

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const AppName = "Camarón"

// RenderHeader draws the app name on the left and the numbered tabs on the
// right. titles may be empty outside the main flow.
func RenderHeader(width int, titles []string, active int, right string) string {
	tabs := make([]string, 0, len(titles))
	for i, title := range titles {
		label := fmt.Sprintf("%d:%s", i+1, title)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	left := headerAppStyle.Render(" " + AppName)
	if right != "" {
		left += tabSepStyle.Render("  ") + headerBarStyle.Foreground(ColorMuted).Render(right)
	}
	rightSide := ""
	if len(tabs) > 0 {
		rightSide = tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))
	}
	rightSide = ansi.Truncate(rightSide, max(1, width), "")
	gap := 1
	if lw, rw := ansi.StringWidth(left), ansi.StringWidth(rightSide); lw+rw+1 < width {
		gap = width - lw - rw
	}
	return renderBar(headerBarStyle, max(1, width), left+strings.Repeat(" ", gap)+rightSide, ColorMantle)
}

func RenderFooter(width int, bindings []KeyBinding) string {
	bg := ColorMantle
	keyStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(ColorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	seen := map[string]bool{}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 || seen[b.Keys[0]] {
			continue
		}
		seen[b.Keys[0]] = true
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description))
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = descStyle.Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, width), line, bg)
}

func RenderStatusBar(width int, text string, isErr bool) string {
	msg := strings.TrimSpace(text)
	if msg == "" {
		msg = "Listo"
	}
	if isErr {
		return renderBar(statusErrBarStyle, max(1, width), msg, ColorSurface0)
	}
	return renderBar(statusBarStyle, max(1, width), msg, ColorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if lineW := ansi.StringWidth(line); lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}

// Money formats cents with the configured currency symbol.
func Money(symbol string, cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}

// Stars renders a 0..5 rating as filled and empty stars.
func Stars(rating float64) string {
	full := int(rating + 0.5)
	full = min(max(full, 0), 5)
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}
