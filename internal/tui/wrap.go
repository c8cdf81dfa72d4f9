package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/texuddy/texuddy/internal/retype"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// palette turns band opacity into concrete terminal colors.
type palette struct {
	background colorful.Color
	completed  colorful.Color
	future     colorful.Color
	active     lipgloss.Style
	cache      map[bandKey]lipgloss.Style
}

type bandKey struct {
	opacity float64
	faint   bool
}

func newPalette() *palette {
	return &palette{
		background: mustHex(backgroundHex),
		completed:  mustHex(completedHex),
		future:     mustHex(futureHex),
		active:     activeStyle,
		cache:      map[bandKey]lipgloss.Style{},
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// style returns the future-character style for a band. Opacity blends the
// glyph toward the background and any blur renders faint.
func (p *palette) style(b retype.Band) lipgloss.Style {
	key := bandKey{opacity: b.Opacity, faint: b.BlurPx > 0}
	if st, ok := p.cache[key]; ok {
		return st
	}
	blended := p.background.BlendRgb(p.future, b.Opacity).Clamped()
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(blended.Hex())).Faint(key.faint)
	p.cache[key] = st
	return st
}

func (p *palette) completedStyle() lipgloss.Style {
	key := bandKey{opacity: -1}
	if st, ok := p.cache[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(p.completed.Hex()))
	p.cache[key] = st
	return st
}

func buildStyledRunes(text *retype.Text, cursor int, pal *palette) []styledRune {
	runes := text.Runes()
	out := make([]styledRune, 0, len(runes))
	for i, r := range runes {
		d := retype.DisplayAt(i, cursor)
		width := runewidth.RuneWidth(r)
		item := styledRune{width: width, isSpace: r == ' '}
		switch {
		case d.State == retype.StateActive:
			shown := string(r)
			if r == ' ' {
				shown = "·"
			}
			item.s = pal.active.Render(shown)
		case d.State == retype.StateCompleted:
			item.s = pal.completedStyle().Render(string(r))
		case !d.Visible():
			item.s = strings.Repeat(" ", width)
		default:
			item.s = pal.style(d.Band).Render(string(r))
		}
		out = append(out, item)
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring
// to break after a space. lineOf[i] is the line holding rune i.
func wrapStyledRunes(runes []styledRune, width int) (lines []string, lineOf []int) {
	lineOf = make([]int, len(runes))
	if width <= 0 {
		return []string{renderStyledRunes(runes)}, lineOf
	}
	start := 0
	lineWidth := 0
	lastSpace := -1
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && i > start {
			end := i
			if lastSpace >= start {
				end = lastSpace + 1
			}
			lines = appendLine(lines, lineOf, runes, start, end)
			start = end
			lineWidth = 0
			for j := start; j < i; j++ {
				lineWidth += runes[j].width
			}
			lastSpace = lastSpaceIn(runes, start, i)
			continue
		}
		lineWidth += item.width
		if item.isSpace {
			lastSpace = i
		}
		i++
	}
	lines = appendLine(lines, lineOf, runes, start, len(runes))
	return lines, lineOf
}

func appendLine(lines []string, lineOf []int, runes []styledRune, start, end int) []string {
	idx := len(lines)
	for j := start; j < end; j++ {
		lineOf[j] = idx
	}
	return append(lines, renderStyledRunes(runes[start:end]))
}

func lastSpaceIn(runes []styledRune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i].isSpace {
			return i
		}
	}
	return -1
}
