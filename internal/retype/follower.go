package retype

import (
	"math"
	"sync/atomic"
	"time"
)

// Follower timing.
const (
	ScrollDebounce = 30 * time.Millisecond
	ScrollSettle   = 100 * time.Millisecond
)

const (
	// lookahead places the active character this far down the visible area.
	lookahead = 0.35
	// safeLines is the margin kept above an on-screen keyboard.
	safeLines = 2.5
)

// TickKind tells the host which delay a Tick needs.
type TickKind int

const (
	// TickScroll fires after ScrollDebounce.
	TickScroll TickKind = iota
	// TickSettle fires after ScrollSettle.
	TickSettle
)

// Tick is a deferred follower step. The host delivers it back after
// Delay(); stale ticks are ignored.
type Tick struct {
	Kind TickKind
	ID   int
	seq  int
}

// Delay returns how long the host should wait before delivering t.
func (t Tick) Delay() time.Duration {
	if t.Kind == TickSettle {
		return ScrollSettle
	}
	return ScrollDebounce
}

var lastFollowerID atomic.Int64

// Follower keeps the active character inside a comfortable reading band.
// It never starts a timer itself: each step returns a Tick and the host
// hands it back when the delay has passed, so all state changes happen
// on the host's event loop.
type Follower struct {
	id        int
	container Container
	window    Window
	keyboard  *KeyboardTracker
	fontSize  FontSize

	seq      int
	inFlight bool
	stopped  bool
}

// NewFollower builds a Follower. window may be nil on platforms without
// viewport measurements.
func NewFollower(container Container, window Window, keyboard *KeyboardTracker, fontSize FontSize) *Follower {
	if keyboard == nil {
		keyboard = &KeyboardTracker{}
	}
	return &Follower{
		id:        int(lastFollowerID.Add(1)),
		container: container,
		window:    window,
		keyboard:  keyboard,
		fontSize:  ClampFontSize(int(fontSize)),
	}
}

// ID identifies the follower so hosts can route ticks.
func (f *Follower) ID() int { return f.id }

// SetFontSize updates the size used for line-height margins.
func (f *Follower) SetFontSize(size FontSize) { f.fontSize = ClampFontSize(int(size)) }

// FontSize returns the current size.
func (f *Follower) FontSize() FontSize { return f.fontSize }

// Keyboard returns the tracker used by the follower.
func (f *Follower) Keyboard() *KeyboardTracker { return f.keyboard }

// InFlight reports whether a scroll adjustment is settling.
func (f *Follower) InFlight() bool { return f.inFlight }

// OnCursorChange schedules a debounced scroll. It returns false when an
// adjustment is already in flight or the follower was stopped; any
// previously scheduled scroll tick becomes stale.
func (f *Follower) OnCursorChange() (Tick, bool) {
	if f.stopped || f.inFlight || f.container == nil {
		return Tick{}, false
	}
	f.seq++
	return Tick{Kind: TickScroll, ID: f.id, seq: f.seq}, true
}

// Fire runs a scroll tick. When a scroll happened it returns the settle
// tick that will clear the in-flight guard.
func (f *Follower) Fire(t Tick) (Tick, bool) {
	if f.stopped || t.Kind != TickScroll || t.ID != f.id || t.seq != f.seq {
		return Tick{}, false
	}
	el, ok := f.container.ActiveBounds()
	if !ok {
		return Tick{}, false
	}
	f.inFlight = true
	if f.window != nil && f.window.Touch() && f.keyboard.Height() > 0 {
		if !f.scrollAboveKeyboard(el) {
			f.inFlight = false
			return Tick{}, false
		}
	} else {
		f.scrollDesktop(el)
	}
	f.seq++
	return Tick{Kind: TickSettle, ID: f.id, seq: f.seq}, true
}

// Settle clears the in-flight guard.
func (f *Follower) Settle(t Tick) {
	if t.Kind != TickSettle || t.ID != f.id || t.seq != f.seq {
		return
	}
	f.inFlight = false
}

// Stop invalidates every outstanding tick.
func (f *Follower) Stop() {
	f.stopped = true
	f.inFlight = false
	f.seq++
}

func (f *Follower) scrollDesktop(el Rect) {
	c := f.container
	bounds := c.Bounds()
	elementTop := el.Top - bounds.Top + c.ScrollTop()
	target := bounds.Height() * lookahead
	c.SetScrollTop(math.Max(0, elementTop-target))
}

// scrollAboveKeyboard returns false when the visual viewport is not
// available.
func (f *Follower) scrollAboveKeyboard(el Rect) bool {
	vv, ok := f.window.VisualViewport()
	if !ok {
		return false
	}
	c := f.container
	bounds := c.Bounds()
	keyboardTop := vv.OffsetTop() + vv.Height()
	safeZone := f.fontSize.LineHeight() * safeLines
	if el.Bottom <= keyboardTop-safeZone {
		return true
	}
	visibleHeight := keyboardTop - bounds.Top
	target := bounds.Top + visibleHeight*lookahead
	c.SetScrollTop(math.Max(0, c.ScrollTop()+el.Top-target))
	return true
}
