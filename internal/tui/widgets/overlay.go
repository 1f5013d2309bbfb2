package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Overlay centers an already framed popup over base.
func Overlay(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := FitCanvas(base, width, height)
	lines := splitToLines(popup, 0)
	x := max(0, (width-maxLineWidth(lines))/2)
	y := max(0, (height-len(lines))/2)
	return overlayAt(canvas, lines, x, y, width, height)
}

func overlayAt(base string, overlay []string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayWidth := maxLineWidth(overlay)
	for i, line := range overlay {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		over := padRightANSI(line, overlayWidth)
		pos := x + ansi.StringWidth(over)
		right := dropColumns(target, pos)
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		baseLines[row] = ansi.Truncate(left+over+right, width, "")
	}
	return strings.Join(baseLines, "\n")
}

// FitCanvas pads or clips s to exactly width x height cells.
func FitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// FitHeight pads or clips s to height lines without touching widths.
func FitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	return strings.Join(splitToLines(s, height), "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	truncated := ansi.Truncate(s, cols, "")
	return strings.TrimPrefix(s, truncated)
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
