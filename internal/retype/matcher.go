package retype

import (
	"math"
	"time"
	"unicode"
	"unicode/utf8"
)

// CompletionDelay is how long the host waits after the final character
// before reporting completion, so the last glyph can settle visually.
const CompletionDelay = 150 * time.Millisecond

// KeyKind classifies an input event.
type KeyKind int

const (
	// KeyRune is a single printable character, including space.
	KeyRune KeyKind = iota
	// KeyBackspace retreats the cursor.
	KeyBackspace
	// KeyUp is the arrow-up key.
	KeyUp
	// KeyDown is the arrow-down key.
	KeyDown
	// KeyOther is any key the matcher does not interpret.
	KeyOther
)

// Key is one keyboard event.
type Key struct {
	Kind KeyKind
	Rune rune
	Ctrl bool
	Alt  bool
	Meta bool
}

func (k Key) modified() bool {
	return k.Ctrl || k.Alt || k.Meta
}

// Result describes the matcher state after an event.
type Result struct {
	Cursor int
	// Moved is true when the cursor changed.
	Moved bool
	// Completed is true only for the first event that reached the end of
	// the text.
	Completed bool
	// Elapsed is the time from the first keystroke to completion, in
	// whole seconds. Zero unless Completed.
	Elapsed int
	// PreventDefault asks the host to suppress the key's normal action.
	PreventDefault bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) {
		m.now = now
	}
}

// Matcher advances a cursor through a Text on case-insensitive matches.
// Wrong keys are silently ignored.
type Matcher struct {
	text      *Text
	cursor    int
	now       func() time.Time
	started   bool
	startedAt time.Time
	fired     bool
}

// NewMatcher returns a Matcher positioned on the first non-skippable index.
func NewMatcher(text *Text, opts ...Option) *Matcher {
	m := &Matcher{
		text:   text,
		cursor: text.FirstStop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize returns the starting cursor for a target text.
func Initialize(text *Text) int {
	return text.FirstStop()
}

// Text returns the target text.
func (m *Matcher) Text() *Text { return m.text }

// Cursor returns the current cursor index.
func (m *Matcher) Cursor() int { return m.cursor }

// Done reports whether completion has been reported. Backspace after
// completion moves the cursor again but Done stays true.
func (m *Matcher) Done() bool { return m.fired }

// Started reports whether a keystroke has been seen.
func (m *Matcher) Started() bool { return m.started }

// StartedAt returns the time of the first keystroke.
func (m *Matcher) StartedAt() time.Time { return m.startedAt }

// Start must be called once when the exercise opens. An empty or
// all-punctuation text is complete before any key is pressed.
func (m *Matcher) Start() Result {
	if m.cursor >= m.text.Len() && !m.fired {
		m.fired = true
		return Result{Cursor: m.cursor, Completed: true}
	}
	return Result{Cursor: m.cursor}
}

// HandleKey applies one keyboard event.
func (m *Matcher) HandleKey(k Key) Result {
	res := Result{Cursor: m.cursor}
	switch k.Kind {
	case KeyUp, KeyDown:
		res.PreventDefault = true
	case KeyRune:
		res.PreventDefault = k.Rune == ' '
	}
	if k.modified() {
		return res
	}
	if k.Kind != KeyRune && k.Kind != KeyBackspace {
		return res
	}
	m.markStarted()

	if k.Kind == KeyBackspace {
		if m.cursor > 0 {
			m.cursor = m.text.PrevStop(m.cursor)
		}
		res.Moved = m.cursor != res.Cursor
		res.Cursor = m.cursor
		return res
	}

	adv := m.advance(k.Rune)
	adv.PreventDefault = res.PreventDefault
	return adv
}

// HandleInput applies the value of a text field on touch devices. Only
// the final character is considered and the returned value is what the
// field should be reset to.
func (m *Matcher) HandleInput(value string) (Result, string) {
	m.markStarted()
	if value == "" {
		return Result{Cursor: m.cursor}, ""
	}
	last, _ := utf8.DecodeLastRuneInString(value)
	return m.advance(last), ""
}

func (m *Matcher) advance(r rune) Result {
	res := Result{Cursor: m.cursor}
	if m.cursor >= m.text.Len() {
		return res
	}
	if !equalFold(r, m.text.At(m.cursor)) {
		return res
	}
	m.cursor = m.text.NextStop(m.cursor + 1)
	res.Cursor = m.cursor
	res.Moved = true
	if m.cursor >= m.text.Len() && !m.fired {
		m.fired = true
		res.Completed = true
		res.Elapsed = m.elapsedSeconds()
	}
	return res
}

func (m *Matcher) markStarted() {
	if m.started {
		return
	}
	m.started = true
	m.startedAt = m.now()
}

func (m *Matcher) elapsedSeconds() int {
	if !m.started {
		return 0
	}
	d := m.now().Sub(m.startedAt)
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds()))
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}
