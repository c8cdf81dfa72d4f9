// Package model defines shared data structures.
package model

import "time"

// Difficulty grades an exercise.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Exercise is one communication scenario with an expert response to retype.
type Exercise struct {
	ID         string     `yaml:"id"`
	Title      string     `yaml:"title"`
	Category   string     `yaml:"category"`
	From       string     `yaml:"from"`
	Difficulty Difficulty `yaml:"difficulty"`
	Age        int        `yaml:"age"`
	Keywords   []string   `yaml:"keywords"`
	Prompt     string     `yaml:"prompt"`
	Response   string     `yaml:"response"`
}

// Config defines practice settings.
type Config struct {
	Age        int
	Difficulty Difficulty
	Category   string
	FontSize   int
	Touch      bool
	CatalogDir string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Category    string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed retyping session.
type SessionStats struct {
	ID             string
	ExerciseID     string
	Title          string
	Category       string
	Difficulty     Difficulty
	StartedAt      time.Time
	EndedAt        time.Time
	Words          int
	Chars          int
	ElapsedSeconds int
	Points         int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID      int64
	ExerciseID     string
	Title          string
	Category       string
	EndedAt        time.Time
	Words          int
	ElapsedSeconds int
	Points         int
}

// CategoryAggregate aggregates sessions per category.
type CategoryAggregate struct {
	Category       string
	Sessions       int
	Words          int
	ElapsedSeconds int
	Points         int
}

// Profile is the learner identity kept in the progress store.
type Profile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}
