// Package retype implements the retyping engine: the character matcher,
// the distance-banded visibility layout and the viewport follower.
package retype

import (
	"strings"
	"unicode"
)

// Text is an immutable target string with its derived skip mask.
type Text struct {
	raw   string
	runes []rune
	skip  []bool
	words int
	first int
}

// NewText builds a Text from the raw response string.
func NewText(s string) *Text {
	runes := []rune(s)
	skip := make([]bool, len(runes))
	for i, r := range runes {
		skip[i] = IsSkipped(r)
	}
	t := &Text{
		raw:   s,
		runes: runes,
		skip:  skip,
		words: len(strings.Fields(s)),
	}
	t.first = t.NextStop(0)
	return t
}

// IsSkipped reports whether r is advanced over automatically. Letters,
// digits and whitespace must be typed; everything else is punctuation.
func IsSkipped(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}

// String returns the raw target.
func (t *Text) String() string { return t.raw }

// Len returns the number of runes.
func (t *Text) Len() int { return len(t.runes) }

// WordCount returns the whitespace-separated word count.
func (t *Text) WordCount() int { return t.words }

// At returns the rune at i.
func (t *Text) At(i int) rune { return t.runes[i] }

// Runes returns the target runes. Callers must not modify the slice.
func (t *Text) Runes() []rune { return t.runes }

// Skippable reports the skip mask at i. Out of range indexes are not skippable.
func (t *Text) Skippable(i int) bool {
	if i < 0 || i >= len(t.skip) {
		return false
	}
	return t.skip[i]
}

// FirstStop returns the first index the cursor may rest on.
func (t *Text) FirstStop() int { return t.first }

// NextStop returns the first index >= i that is not skippable, or Len().
func (t *Text) NextStop(i int) int {
	if i < 0 {
		i = 0
	}
	for i < len(t.runes) && t.skip[i] {
		i++
	}
	if i > len(t.runes) {
		return len(t.runes)
	}
	return i
}

// PrevStop returns the cursor reached by a single backspace from i: one
// step back, then back over any skippable run. It never goes below
// FirstStop.
func (t *Text) PrevStop(i int) int {
	if i > len(t.runes) {
		i = len(t.runes)
	}
	if i <= t.first {
		return t.first
	}
	prev := i - 1
	for prev > 0 && t.skip[prev] {
		prev--
	}
	if prev < t.first {
		return t.first
	}
	return prev
}
