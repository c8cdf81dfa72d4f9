// Package progress computes gamification state: points, levels, badges
// and streaks.
package progress

import (
	"math"
	"time"

	"github.com/texuddy/texuddy/internal/model"
)

const wordPointFactor = 1.5

var difficultyMultiplier = map[model.Difficulty]float64{
	model.DifficultyEasy:   1.0,
	model.DifficultyMedium: 1.2,
	model.DifficultyHard:   1.5,
}

// Points returns the award for one completed exercise.
func Points(words int, difficulty model.Difficulty, streak int) int {
	mult, ok := difficultyMultiplier[difficulty]
	if !ok {
		mult = 1.0
	}
	base := math.Floor(float64(words) * wordPointFactor)
	return int(math.Floor(base*mult)) + StreakBonus(streak)
}

// StreakBonus returns the bonus for a streak of days.
func StreakBonus(streak int) int {
	switch {
	case streak < 3:
		return 0
	case streak < 7:
		return 50
	case streak < 14:
		return 100
	case streak < 30:
		return 200
	default:
		return 500
	}
}

// levelThresholds[i] is the number of completions needed for level i+1.
var levelThresholds = []int{0, 10, 25, 50, 100, 150, 225, 325, 425, 500}

// MaxLevel is the highest reachable level.
var MaxLevel = len(levelThresholds)

// Level returns the level for a completion count.
func Level(completed int) int {
	level := 1
	for i, req := range levelThresholds {
		if completed < req {
			break
		}
		level = i + 1
	}
	return level
}

// LevelInfo describes progress toward the next level.
type LevelInfo struct {
	Level     int
	NextLevel int
	Needed    int
	Percent   float64
	Max       bool
}

// NextLevel reports progress from the current level to the next.
func NextLevel(completed int) LevelInfo {
	level := Level(completed)
	if level >= MaxLevel {
		return LevelInfo{Level: level, NextLevel: level, Percent: 100, Max: true}
	}
	cur := levelThresholds[level-1]
	next := levelThresholds[level]
	pct := float64(completed-cur) / float64(next-cur) * 100
	return LevelInfo{
		Level:     level,
		NextLevel: level + 1,
		Needed:    next - completed,
		Percent:   math.Max(0, math.Min(100, pct)),
	}
}

// Badge is a completion milestone.
type Badge struct {
	ID       string
	Name     string
	Emoji    string
	Required int
}

// Badges lists every milestone in unlock order.
var Badges = []Badge{
	{ID: "first-steps", Name: "First Steps", Emoji: "🎉", Required: 5},
	{ID: "getting-started", Name: "Beginner", Emoji: "🌱", Required: 25},
	{ID: "intermediate", Name: "Intermediate", Emoji: "⭐", Required: 50},
	{ID: "advanced", Name: "Advanced", Emoji: "🌟", Required: 100},
	{ID: "complex", Name: "Complex", Emoji: "💎", Required: 200},
	{ID: "skilled", Name: "Skilled", Emoji: "🎯", Required: 300},
	{ID: "expert", Name: "Expert", Emoji: "👑", Required: 400},
	{ID: "master", Name: "Master", Emoji: "🔥", Required: 500},
	{ID: "grand-master", Name: "Grand Master", Emoji: "💫", Required: 600},
	{ID: "certificate", Name: "Completion Certificate", Emoji: "🏆", Required: 800},
}

// Unlocked returns the badges earned at a completion count.
func Unlocked(completed int) []Badge {
	var out []Badge
	for _, b := range Badges {
		if completed >= b.Required {
			out = append(out, b)
		}
	}
	return out
}

// Next returns the next badge to earn, or false when all are earned.
func Next(completed int) (Badge, bool) {
	for _, b := range Badges {
		if completed < b.Required {
			return b, true
		}
	}
	return Badge{}, false
}

// NewlyUnlocked returns badges earned by going from before to after completions.
func NewlyUnlocked(before, after int) []Badge {
	var out []Badge
	for _, b := range Badges {
		if before < b.Required && after >= b.Required {
			out = append(out, b)
		}
	}
	return out
}

// Streak counts consecutive calendar days with activity, ending today or
// yesterday. Days are compared in now's location.
func Streak(activity []time.Time, now time.Time) int {
	if len(activity) == 0 {
		return 0
	}
	loc := now.Location()
	days := map[string]struct{}{}
	for _, t := range activity {
		days[dayKey(t.In(loc))] = struct{}{}
	}
	cursor := now
	if _, ok := days[dayKey(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
		if _, ok := days[dayKey(cursor)]; !ok {
			return 0
		}
	}
	streak := 0
	for {
		if _, ok := days[dayKey(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Summary is the learner's overall state.
type Summary struct {
	Completed    int
	Words        int
	Points       int
	Streak       int
	Level        LevelInfo
	Badges       []Badge
	NextBadge    Badge
	HasNextBadge bool
}

// Summarize builds a Summary from stored sessions.
func Summarize(sessions []model.SessionAggregate, now time.Time) Summary {
	distinct := map[string]struct{}{}
	activity := make([]time.Time, 0, len(sessions))
	s := Summary{}
	for _, sess := range sessions {
		distinct[sess.ExerciseID] = struct{}{}
		s.Words += sess.Words
		s.Points += sess.Points
		activity = append(activity, sess.EndedAt)
	}
	s.Completed = len(distinct)
	s.Streak = Streak(activity, now)
	s.Level = NextLevel(s.Completed)
	s.Badges = Unlocked(s.Completed)
	s.NextBadge, s.HasNextBadge = Next(s.Completed)
	return s
}
