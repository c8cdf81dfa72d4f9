package retype

// Font size bounds in pixels.
const (
	DefaultFontSize = 22
	MinFontSize     = 12
	MaxFontSize     = 32
	FontSizeStep    = 2

	lineHeightFactor = 1.5
)

// FontSize is the user-adjustable text size.
type FontSize int

// ClampFontSize bounds px to [MinFontSize, MaxFontSize].
func ClampFontSize(px int) FontSize {
	if px < MinFontSize {
		return MinFontSize
	}
	if px > MaxFontSize {
		return MaxFontSize
	}
	return FontSize(px)
}

// Increase returns the next larger size.
func (f FontSize) Increase() FontSize { return ClampFontSize(int(f) + FontSizeStep) }

// Decrease returns the next smaller size.
func (f FontSize) Decrease() FontSize { return ClampFontSize(int(f) - FontSizeStep) }

// LineHeight returns the rendered line height in pixels.
func (f FontSize) LineHeight() float64 { return float64(f) * lineHeightFactor }

// Rect is a vertical extent in screen coordinates.
type Rect struct {
	Top    float64
	Bottom float64
}

// Height returns Bottom-Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Container is the scrollable text area.
type Container interface {
	// Bounds returns the container extent on screen.
	Bounds() Rect
	// ActiveBounds returns the active character extent on screen, or false
	// when it is not laid out.
	ActiveBounds() (Rect, bool)
	ScrollTop() float64
	SetScrollTop(px float64)
}

// VisualViewport is the part of the window not covered by an on-screen
// keyboard.
type VisualViewport interface {
	OffsetTop() float64
	Height() float64
}

// Window exposes the platform measurements used for keyboard detection.
type Window interface {
	// Touch reports whether the device uses an on-screen keyboard.
	Touch() bool
	InnerHeight() float64
	// ClientHeight is the document height fallback.
	ClientHeight() float64
	// VisualViewport returns false when the platform lacks the API.
	VisualViewport() (VisualViewport, bool)
}

// KeyboardTracker keeps the measured on-screen keyboard height.
type KeyboardTracker struct {
	height float64
}

// Height returns the last measured keyboard height.
func (k *KeyboardTracker) Height() float64 { return k.height }

// Measure recomputes the keyboard height. Hosts call it on every resize,
// viewport scroll or orientation change.
func (k *KeyboardTracker) Measure(w Window) float64 {
	if w == nil || !w.Touch() {
		k.height = 0
		return 0
	}
	var diff float64
	if vv, ok := w.VisualViewport(); ok {
		diff = w.InnerHeight() - vv.Height()
	} else {
		diff = w.InnerHeight() - w.ClientHeight()
	}
	if diff < 0 {
		diff = 0
	}
	k.height = diff
	return diff
}
