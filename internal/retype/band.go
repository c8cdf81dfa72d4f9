package retype

import "time"

// State is the display state of one character relative to the cursor.
type State int

const (
	// StateCompleted is a character before the cursor.
	StateCompleted State = iota
	// StateActive is the character under the cursor.
	StateActive
	// StateFuture is a character after the cursor.
	StateFuture
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateActive:
		return "active"
	default:
		return "future"
	}
}

// Band is the presentation preset for a character.
type Band struct {
	Opacity    float64
	BlurPx     float64
	Transition time.Duration
}

// Distance band upper bounds, in characters ahead of the cursor.
const (
	NearDistance    = 15
	MidDistance     = 40
	FarDistance     = 80
	HorizonDistance = 150
)

var (
	bandNear    = Band{Opacity: 1, Transition: 200 * time.Millisecond}
	bandMid     = Band{Opacity: 0.7, Transition: 300 * time.Millisecond}
	bandFar     = Band{Opacity: 0.4, BlurPx: 1, Transition: 500 * time.Millisecond}
	bandHorizon = Band{Opacity: 0.1, BlurPx: 2, Transition: 700 * time.Millisecond}
	bandHidden  = Band{Opacity: 0, Transition: time.Second}
	bandSettled = Band{Opacity: 1, Transition: 500 * time.Millisecond}
)

// BandFor returns the preset for a future character d positions ahead.
// Distances of zero or less get the settled preset used by completed and
// active characters.
func BandFor(d int) Band {
	switch {
	case d <= 0:
		return bandSettled
	case d <= NearDistance:
		return bandNear
	case d <= MidDistance:
		return bandMid
	case d <= FarDistance:
		return bandFar
	case d <= HorizonDistance:
		return bandHorizon
	default:
		return bandHidden
	}
}

// Display is the derived view state for one character.
type Display struct {
	State    State
	Distance int
	Band     Band
}

// Visible reports whether the character should be drawn at all.
func (d Display) Visible() bool {
	return d.Band.Opacity > 0
}

// DisplayAt derives the display state of index for the given cursor.
func DisplayAt(index, cursor int) Display {
	switch {
	case index < cursor:
		return Display{State: StateCompleted, Band: bandSettled}
	case index == cursor:
		return Display{State: StateActive, Band: bandSettled}
	default:
		d := index - cursor
		return Display{State: StateFuture, Distance: d, Band: BandFor(d)}
	}
}

// Layout derives the display state of every character of text.
func Layout(text *Text, cursor int) []Display {
	out := make([]Display, text.Len())
	for i := range out {
		out[i] = DisplayAt(i, cursor)
	}
	return out
}
