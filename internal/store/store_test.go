package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texuddy/texuddy/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "texuddy.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, cat := range []string{"Retail Sales", "Marketing", "Retail Sales"} {
		_, err := st.InsertSession(ctx, model.SessionStats{
			ExerciseID:     "scenario-0" + string(rune('1'+i)),
			Title:          "title",
			Category:       cat,
			Difficulty:     model.DifficultyEasy,
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			EndedAt:        base.Add(time.Duration(i)*time.Hour + time.Minute),
			Words:          60,
			Chars:          300,
			ElapsedSeconds: 60,
			Points:         90,
		})
		require.NoError(t, err)
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].EndedAt.Before(all[1].EndedAt))

	retail, err := st.ListSessions(ctx, model.StatsConfig{Category: "Retail Sales"})
	require.NoError(t, err)
	assert.Len(t, retail, 2)

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	ids := []int64{all[0].SessionID, all[1].SessionID, all[2].SessionID}
	cats, err := st.ListCategoryAggregates(ctx, ids)
	require.NoError(t, err)
	byName := map[string]model.CategoryAggregate{}
	for _, c := range cats {
		byName[c.Category] = c
	}
	assert.Equal(t, 2, byName["Retail Sales"].Sessions)
	assert.Equal(t, 120, byName["Retail Sales"].Words)

	done, err := st.CompletedExerciseIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, done, 3)
}

func TestSkippedExercises(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, st.SkipExercise(ctx, "a", now))
	require.NoError(t, st.SkipExercise(ctx, "a", now.Add(time.Second)))
	require.NoError(t, st.SkipExercise(ctx, "b", now))

	skipped, err := st.SkippedExerciseIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, skipped, 2)

	require.NoError(t, st.UnskipExercise(ctx, "a"))
	skipped, err = st.SkippedExerciseIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"b": {}}, skipped)
}

func TestProgressStoreRoundTripAndDefaults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	ps := NewProgressStore(st, nil)

	def := model.Profile{Name: "Solo Grinder", Age: 12}
	assert.Equal(t, def, Load(ctx, ps, KeyProfile, def))

	require.NoError(t, Save(ctx, ps, KeyProfile, model.Profile{Name: "Sam", Age: 9}))
	assert.Equal(t, model.Profile{Name: "Sam", Age: 9}, Load(ctx, ps, KeyProfile, def))

	require.NoError(t, st.Put(ctx, KeyFontSize, []byte("{not json")))
	assert.Equal(t, 22, Load(ctx, ps, KeyFontSize, 22))
}
