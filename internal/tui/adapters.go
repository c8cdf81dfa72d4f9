package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/texuddy/texuddy/internal/retype"
)

// textArea exposes the retype viewport to the follower. Terminal rows are
// converted to pixels with the current line height so the follower's
// margins scale with the font size.
type textArea struct {
	vp         *viewport.Model
	top        int
	activeLine int
	hasActive  bool
	fontSize   retype.FontSize
}

func (a *textArea) px(rows int) float64 {
	return float64(rows) * a.fontSize.LineHeight()
}

func (a *textArea) Bounds() retype.Rect {
	return retype.Rect{Top: a.px(a.top), Bottom: a.px(a.top + a.vp.Height)}
}

func (a *textArea) ActiveBounds() (retype.Rect, bool) {
	if !a.hasActive || a.vp.Height <= 0 {
		return retype.Rect{}, false
	}
	row := a.top + a.activeLine - a.vp.YOffset
	return retype.Rect{Top: a.px(row), Bottom: a.px(row + 1)}, true
}

func (a *textArea) ScrollTop() float64 {
	return a.px(a.vp.YOffset)
}

func (a *textArea) SetScrollTop(px float64) {
	lh := a.fontSize.LineHeight()
	if lh <= 0 {
		return
	}
	a.vp.SetYOffset(int(math.Round(px / lh)))
}

// terminalWindow reports the terminal as the follower's window. In touch
// mode the on-screen keyboard panel covers the bottom rows, which shrinks
// the visual viewport.
type terminalWindow struct {
	touch          bool
	height         int
	keyboardHeight int
	fontSize       retype.FontSize
}

type visualRows struct {
	height float64
}

func (v visualRows) OffsetTop() float64 { return 0 }
func (v visualRows) Height() float64    { return v.height }

func (w *terminalWindow) px(rows int) float64 {
	return float64(rows) * w.fontSize.LineHeight()
}

func (w *terminalWindow) Touch() bool           { return w.touch }
func (w *terminalWindow) InnerHeight() float64  { return w.px(w.height) }
func (w *terminalWindow) ClientHeight() float64 { return w.px(w.height) }
func (w *terminalWindow) VisualViewport() (retype.VisualViewport, bool) {
	visible := w.height
	if w.touch {
		visible -= w.keyboardHeight
	}
	if visible < 0 {
		visible = 0
	}
	return visualRows{height: w.px(visible)}, true
}
