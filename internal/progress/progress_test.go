package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texuddy/texuddy/internal/model"
)

func TestPoints(t *testing.T) {
	assert.Equal(t, 109, Points(73, model.DifficultyEasy, 0))
	assert.Equal(t, 130, Points(73, model.DifficultyMedium, 0))
	assert.Equal(t, 163, Points(73, model.DifficultyHard, 0))
	assert.Equal(t, 109+100, Points(73, model.DifficultyEasy, 7))
	assert.Equal(t, 109, Points(73, model.Difficulty("unknown"), 1))
}

func TestStreakBonus(t *testing.T) {
	for streak, want := range map[int]int{0: 0, 2: 0, 3: 50, 6: 50, 7: 100, 13: 100, 14: 200, 29: 200, 30: 500, 365: 500} {
		assert.Equal(t, want, StreakBonus(streak), "streak %d", streak)
	}
}

func TestLevels(t *testing.T) {
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(9))
	assert.Equal(t, 2, Level(10))
	assert.Equal(t, 5, Level(100))
	assert.Equal(t, 10, Level(5000))

	info := NextLevel(15)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 3, info.NextLevel)
	assert.Equal(t, 10, info.Needed)
	assert.InDelta(t, 33.33, info.Percent, 0.01)

	top := NextLevel(600)
	assert.True(t, top.Max)
	assert.Equal(t, 100.0, top.Percent)
}

func TestBadges(t *testing.T) {
	assert.Empty(t, Unlocked(4))
	assert.Len(t, Unlocked(25), 2)
	next, ok := Next(25)
	require.True(t, ok)
	assert.Equal(t, "intermediate", next.ID)
	_, ok = Next(800)
	assert.False(t, ok)

	fresh := NewlyUnlocked(4, 5)
	require.Len(t, fresh, 1)
	assert.Equal(t, "first-steps", fresh[0].ID)
	assert.Empty(t, NewlyUnlocked(5, 6))
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, -offset).Add(time.Hour) }

	assert.Equal(t, 0, Streak(nil, now))
	assert.Equal(t, 3, Streak([]time.Time{day(0), day(1), day(1), day(2), day(4)}, now))
	assert.Equal(t, 2, Streak([]time.Time{day(1), day(2)}, now), "streak survives until end of today")
	assert.Equal(t, 0, Streak([]time.Time{day(2), day(3)}, now))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	sessions := []model.SessionAggregate{
		{ExerciseID: "a", Words: 50, Points: 75, EndedAt: now.AddDate(0, 0, -1)},
		{ExerciseID: "a", Words: 50, Points: 75, EndedAt: now},
		{ExerciseID: "b", Words: 20, Points: 30, EndedAt: now},
	}
	s := Summarize(sessions, now)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 120, s.Words)
	assert.Equal(t, 180, s.Points)
	assert.Equal(t, 2, s.Streak)
	assert.Equal(t, 1, s.Level.Level)
	assert.True(t, s.HasNextBadge)
}
