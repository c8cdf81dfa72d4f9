package retype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContainer struct {
	bounds    Rect
	active    Rect
	hasActive bool
	scrollTop float64
	sets      int
}

func (c *fakeContainer) Bounds() Rect               { return c.bounds }
func (c *fakeContainer) ActiveBounds() (Rect, bool) { return c.active, c.hasActive }
func (c *fakeContainer) ScrollTop() float64         { return c.scrollTop }
func (c *fakeContainer) SetScrollTop(px float64) {
	c.scrollTop = px
	c.sets++
}

type fakeViewport struct {
	offsetTop float64
	height    float64
}

func (v fakeViewport) OffsetTop() float64 { return v.offsetTop }
func (v fakeViewport) Height() float64    { return v.height }

type fakeWindow struct {
	touch        bool
	innerHeight  float64
	clientHeight float64
	vv           *fakeViewport
}

func (w *fakeWindow) Touch() bool           { return w.touch }
func (w *fakeWindow) InnerHeight() float64  { return w.innerHeight }
func (w *fakeWindow) ClientHeight() float64 { return w.clientHeight }
func (w *fakeWindow) VisualViewport() (VisualViewport, bool) {
	if w.vv == nil {
		return nil, false
	}
	return *w.vv, true
}

func TestFollowerDesktopScroll(t *testing.T) {
	c := &fakeContainer{
		bounds:    Rect{Top: 100, Bottom: 500},
		active:    Rect{Top: 600, Bottom: 633},
		hasActive: true,
		scrollTop: 50,
	}
	f := NewFollower(c, &fakeWindow{innerHeight: 800}, nil, DefaultFontSize)

	tick, ok := f.OnCursorChange()
	require.True(t, ok)
	assert.Equal(t, ScrollDebounce, tick.Delay())

	settle, ok := f.Fire(tick)
	require.True(t, ok)
	assert.Equal(t, ScrollSettle, settle.Delay())
	// element top relative to content = 600-100+50 = 550; target = 400*0.35 = 140
	assert.InDelta(t, 410, c.scrollTop, 1e-9)
	assert.True(t, f.InFlight())

	f.Settle(settle)
	assert.False(t, f.InFlight())
}

func TestFollowerClampsToZero(t *testing.T) {
	c := &fakeContainer{
		bounds:    Rect{Top: 0, Bottom: 400},
		active:    Rect{Top: 20, Bottom: 50},
		hasActive: true,
	}
	f := NewFollower(c, nil, nil, DefaultFontSize)
	tick, _ := f.OnCursorChange()
	_, ok := f.Fire(tick)
	require.True(t, ok)
	assert.Zero(t, c.scrollTop)
}

func TestFollowerDebounceLastWriteWins(t *testing.T) {
	c := &fakeContainer{bounds: Rect{Bottom: 400}, active: Rect{Top: 300, Bottom: 330}, hasActive: true}
	f := NewFollower(c, nil, nil, DefaultFontSize)

	first, ok := f.OnCursorChange()
	require.True(t, ok)
	second, ok := f.OnCursorChange()
	require.True(t, ok)

	_, ok = f.Fire(first)
	assert.False(t, ok, "superseded tick must be ignored")
	assert.Zero(t, c.sets)

	_, ok = f.Fire(second)
	assert.True(t, ok)
	assert.Equal(t, 1, c.sets)
}

func TestFollowerInFlightDropsChanges(t *testing.T) {
	c := &fakeContainer{bounds: Rect{Bottom: 400}, active: Rect{Top: 300, Bottom: 330}, hasActive: true}
	f := NewFollower(c, nil, nil, DefaultFontSize)

	tick, _ := f.OnCursorChange()
	settle, ok := f.Fire(tick)
	require.True(t, ok)

	_, ok = f.OnCursorChange()
	assert.False(t, ok)

	f.Settle(settle)
	_, ok = f.OnCursorChange()
	assert.True(t, ok)
}

func TestFollowerStopCancelsTicks(t *testing.T) {
	c := &fakeContainer{bounds: Rect{Bottom: 400}, active: Rect{Top: 300, Bottom: 330}, hasActive: true}
	f := NewFollower(c, nil, nil, DefaultFontSize)

	tick, _ := f.OnCursorChange()
	f.Stop()
	_, ok := f.Fire(tick)
	assert.False(t, ok)
	assert.Zero(t, c.sets)
	_, ok = f.OnCursorChange()
	assert.False(t, ok)
}

func TestFollowerTicksAreRoutedByID(t *testing.T) {
	c := &fakeContainer{bounds: Rect{Bottom: 400}, active: Rect{Top: 300, Bottom: 330}, hasActive: true}
	a := NewFollower(c, nil, nil, DefaultFontSize)
	b := NewFollower(c, nil, nil, DefaultFontSize)
	tick, _ := a.OnCursorChange()
	b.OnCursorChange()
	_, ok := b.Fire(tick)
	assert.False(t, ok)
}

func TestFollowerMissingActiveCharDoesNothing(t *testing.T) {
	c := &fakeContainer{bounds: Rect{Bottom: 400}}
	f := NewFollower(c, nil, nil, DefaultFontSize)
	tick, _ := f.OnCursorChange()
	_, ok := f.Fire(tick)
	assert.False(t, ok)
	assert.False(t, f.InFlight())
}

func TestFollowerKeyboardPath(t *testing.T) {
	w := &fakeWindow{touch: true, innerHeight: 800, vv: &fakeViewport{height: 500}}
	kb := &KeyboardTracker{}
	require.InDelta(t, 300, kb.Measure(w), 1e-9)

	c := &fakeContainer{
		bounds:    Rect{Top: 60, Bottom: 800},
		active:    Rect{Top: 440, Bottom: 473},
		hasActive: true,
		scrollTop: 200,
	}
	f := NewFollower(c, w, kb, DefaultFontSize)

	tick, _ := f.OnCursorChange()
	_, ok := f.Fire(tick)
	require.True(t, ok)
	// safe zone = 22*1.5*2.5 = 82.5, 473 > 500-82.5 so it scrolls.
	// target = 60 + (500-60)*0.35 = 214; offset = 440-214 = 226
	assert.InDelta(t, 426, c.scrollTop, 1e-9)
}

func TestFollowerKeyboardPathSkipsWhenClear(t *testing.T) {
	w := &fakeWindow{touch: true, innerHeight: 800, vv: &fakeViewport{height: 500}}
	kb := &KeyboardTracker{}
	kb.Measure(w)
	c := &fakeContainer{
		bounds:    Rect{Top: 60, Bottom: 800},
		active:    Rect{Top: 200, Bottom: 233},
		hasActive: true,
		scrollTop: 10,
	}
	f := NewFollower(c, w, kb, DefaultFontSize)
	tick, _ := f.OnCursorChange()
	settle, ok := f.Fire(tick)
	require.True(t, ok)
	assert.Zero(t, c.sets)
	assert.True(t, f.InFlight())
	f.Settle(settle)
	assert.False(t, f.InFlight())
}

func TestFollowerLargerFontScrollsEarlier(t *testing.T) {
	w := &fakeWindow{touch: true, innerHeight: 800, vv: &fakeViewport{height: 500}}
	kb := &KeyboardTracker{}
	kb.Measure(w)
	active := Rect{Top: 380, Bottom: 410}

	small := &fakeContainer{bounds: Rect{Top: 60, Bottom: 800}, active: active, hasActive: true}
	fs := NewFollower(small, w, kb, MinFontSize)
	tick, _ := fs.OnCursorChange()
	fs.Fire(tick)
	assert.Zero(t, small.sets, "410 is clear of 500-45")

	large := &fakeContainer{bounds: Rect{Top: 60, Bottom: 800}, active: active, hasActive: true}
	fl := NewFollower(large, w, kb, MaxFontSize)
	tick, _ = fl.OnCursorChange()
	fl.Fire(tick)
	assert.Equal(t, 1, large.sets, "410 is inside 500-120")
}

func TestFollowerWithoutVisualViewportDegrades(t *testing.T) {
	w := &fakeWindow{touch: true, innerHeight: 800, clientHeight: 600}
	kb := &KeyboardTracker{}
	require.InDelta(t, 200, kb.Measure(w), 1e-9)

	c := &fakeContainer{bounds: Rect{Bottom: 800}, active: Rect{Top: 700, Bottom: 733}, hasActive: true}
	f := NewFollower(c, w, kb, DefaultFontSize)
	tick, _ := f.OnCursorChange()
	_, ok := f.Fire(tick)
	assert.False(t, ok)
	assert.Zero(t, c.sets)
	assert.False(t, f.InFlight())
}

func TestKeyboardTrackerResetsOnDesktop(t *testing.T) {
	kb := &KeyboardTracker{}
	kb.Measure(&fakeWindow{touch: true, innerHeight: 800, vv: &fakeViewport{height: 400}})
	require.InDelta(t, 400, kb.Height(), 1e-9)
	kb.Measure(&fakeWindow{innerHeight: 800, vv: &fakeViewport{height: 400}})
	assert.Zero(t, kb.Height())
	kb.Measure(&fakeWindow{touch: true, innerHeight: 400, vv: &fakeViewport{height: 500}})
	assert.Zero(t, kb.Height())
}

func TestFontSizeClamp(t *testing.T) {
	f := FontSize(DefaultFontSize)
	for i := 0; i < 10; i++ {
		f = f.Increase()
	}
	assert.Equal(t, FontSize(MaxFontSize), f)
	for i := 0; i < 20; i++ {
		f = f.Decrease()
	}
	assert.Equal(t, FontSize(MinFontSize), f)
	assert.InDelta(t, 18, f.LineHeight(), 1e-9)
}
