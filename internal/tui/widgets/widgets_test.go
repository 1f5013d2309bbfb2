package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestOverlayKeepsCanvasSize(t *testing.T) {
	out := Overlay("base", "┌hello┐", 40, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 40 {
			t.Fatalf("line %d width %d", i, w)
		}
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("popup content missing")
	}
}

func TestOverlayZeroSize(t *testing.T) {
	if Overlay("x", "y", 0, 5) != "" {
		t.Fatalf("expected empty output for zero width")
	}
}

func TestPanelIncludesTitle(t *testing.T) {
	out := Panel{Title: "Reservas", Content: "uno\ndos"}.Render(30, 6)
	if !strings.Contains(out, "Reservas") || !strings.Contains(out, "dos") {
		t.Fatalf("panel missing content: %q", out)
	}
}

func TestListScrollsToCursor(t *testing.T) {
	out := List([]string{"a", "b", "c", "d"}, 3, 2)
	if strings.Contains(out, "a") || !strings.Contains(out, "▶ d") {
		t.Fatalf("unexpected window: %q", out)
	}
}
