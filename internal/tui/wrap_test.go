package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/texuddy/texuddy/internal/retype"
)

func TestBuildStyledRunesStates(t *testing.T) {
	pal := newPalette()
	text := retype.NewText("ab cd")

	runes := buildStyledRunes(text, 1, pal)
	if len(runes) != 5 {
		t.Fatalf("expected 5 runes, got %d", len(runes))
	}
	if runes[0].s != pal.completedStyle().Render("a") {
		t.Fatalf("expected completed style for first rune")
	}
	if runes[1].s != activeStyle.Render("b") {
		t.Fatalf("expected active style for cursor rune")
	}
	if runes[3].s != pal.style(retype.BandFor(2)).Render("c") {
		t.Fatalf("expected near band style for future rune")
	}
	if !runes[2].isSpace {
		t.Fatalf("expected space marker")
	}
}

func TestBuildStyledRunesActiveSpaceIsVisible(t *testing.T) {
	runes := buildStyledRunes(retype.NewText("a b"), 1, newPalette())
	if runes[1].s != activeStyle.Render("·") {
		t.Fatalf("expected visible marker for active space")
	}
}

func TestBuildStyledRunesHidesFarText(t *testing.T) {
	text := retype.NewText(strings.Repeat("x", 200))
	runes := buildStyledRunes(text, 0, newPalette())
	if runes[199].s != " " {
		t.Fatalf("expected blank cell beyond horizon, got %q", runes[199].s)
	}
	if runes[100].s == " " {
		t.Fatalf("expected horizon rune to be drawn")
	}
}

func TestPaletteBlendsTowardBackground(t *testing.T) {
	pal := newPalette()
	near := pal.style(retype.BandFor(1))
	far := pal.style(retype.BandFor(100))
	if near.GetForeground() == far.GetForeground() {
		t.Fatalf("expected different colors for near and horizon bands")
	}
	if !far.GetFaint() {
		t.Fatalf("expected blurred band to render faint")
	}
	if near.GetFaint() {
		t.Fatalf("expected near band to be sharp")
	}
	if _, ok := far.GetForeground().(lipgloss.Color); !ok {
		t.Fatalf("expected hex color foreground")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := plainRunes("one two three")
	lines, lineOf := wrapStyledRunes(runes, 8)
	want := []string{"one two ", "three"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
	if lineOf[0] != 0 || lineOf[7] != 0 || lineOf[8] != 1 || lineOf[12] != 1 {
		t.Fatalf("unexpected line mapping: %v", lineOf)
	}
}

func TestWrapStyledRunesSplitsLongWords(t *testing.T) {
	lines, lineOf := wrapStyledRunes(plainRunes("abcdefgh"), 3)
	if strings.Join(lines, "|") != "abc|def|gh" {
		t.Fatalf("unexpected lines: %q", lines)
	}
	if lineOf[7] != 2 {
		t.Fatalf("expected last rune on third line, got %d", lineOf[7])
	}
}

func plainRunes(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}
