package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texuddy/texuddy/internal/model"
)

const extraCatalog = `exercises:
  - id: custom-01
    title: "Thank a Mentor"
    category: "Mentoring"
    from: "Mentor"
    difficulty: easy
    age: 10
    keywords: ["Gratitude"]
    prompt: "Thank your mentor."
    response: "Thank you for all of your help this year."
`

func TestBuiltinLoads(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, 14, c.Len())

	ex, ok := c.Get("scenario-01")
	require.True(t, ok)
	assert.Equal(t, "Graphic Designer", ex.Category)
	assert.Equal(t, model.DifficultyMedium, ex.Difficulty)
	assert.NotEmpty(t, ex.Response)

	cats := c.Categories()
	assert.Len(t, cats, 14)
	assert.IsIncreasing(t, cats)
}

func TestLoadMergesUserDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(extraCatalog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 15, c.Len())
	_, ok := c.Get("custom-01")
	assert.True(t, ok)
}

func TestLoadMissingDir(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, 14, c.Len())
}

func TestLoadRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	dup := `exercises:
  - id: scenario-01
    difficulty: easy
    response: "Again."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.yml"), []byte(dup), 0o644))
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate exercise id")
}

func TestValidate(t *testing.T) {
	ok := model.Exercise{ID: "a", Difficulty: model.DifficultyHard, Response: "x"}
	assert.NoError(t, Validate(ok))

	noID := ok
	noID.ID = " "
	assert.Error(t, Validate(noID))

	noResponse := ok
	noResponse.Response = ""
	assert.Error(t, Validate(noResponse))

	badDifficulty := ok
	badDifficulty.Difficulty = "extreme"
	assert.Error(t, Validate(badDifficulty))
}

func TestSelect(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	easy := c.Select(Filter{Difficulty: model.DifficultyEasy})
	assert.Len(t, easy, 3)
	for _, ex := range easy {
		assert.Equal(t, model.DifficultyEasy, ex.Difficulty)
	}

	byCategory := c.Select(Filter{Category: "retail sales"})
	require.Len(t, byCategory, 1)
	assert.Equal(t, "scenario-02", byCategory[0].ID)

	assert.Empty(t, c.Select(Filter{Age: 8}))
	assert.Len(t, c.Select(Filter{Age: 12}), 14)

	excluded := c.Select(Filter{Exclude: []map[string]struct{}{{"scenario-01": {}}, {"scenario-02": {}}}})
	assert.Len(t, excluded, 12)
}

func TestPickerPrefersLessPracticed(t *testing.T) {
	candidates := []model.Exercise{
		{ID: "a", Category: "busy"},
		{ID: "b", Category: "fresh"},
	}
	practiced := map[string]int{"busy": 99}
	p := NewSeededPicker(1)

	fresh := 0
	for i := 0; i < 200; i++ {
		ex, ok := p.Pick(candidates, practiced)
		require.True(t, ok)
		if ex.ID == "b" {
			fresh++
		}
	}
	assert.Greater(t, fresh, 150)

	_, ok := p.Pick(nil, practiced)
	assert.False(t, ok)
}

func TestImport(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	src := filepath.Join(t.TempDir(), "mentor.yaml")
	require.NoError(t, os.WriteFile(src, []byte(extraCatalog), 0o644))
	dir := t.TempDir()

	out, n, err := Import(c, src, dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, filepath.Join(dir, "mentor.yaml"), out)
	assert.Equal(t, 15, c.Len())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 15, reloaded.Len())

	fresh, err := Builtin()
	require.NoError(t, err)
	_, _, err = Import(fresh, src, dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestImportRejectsInvalid(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	src := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(src, []byte("exercises:\n  - id: x\n    difficulty: easy\n"), 0o644))

	_, _, err = Import(c, src, t.TempDir(), false)
	require.Error(t, err)
	assert.Equal(t, 14, c.Len())
}

func TestWatchSignalsChanges(t *testing.T) {
	dir := t.TempDir()
	events, closer, err := Watch(dir)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.yaml"), []byte(extraCatalog), 0o644))
	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected a change notification")
	}
}

func TestImportText(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	dir := t.TempDir()

	ex := model.Exercise{ID: "note-01", Category: "Personal"}
	out, err := ImportText(c, ex, "Dear team,\n\n  thanks for   the help.\n", dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "note-01.yaml"), out)

	got, ok := c.Get("note-01")
	require.True(t, ok)
	assert.Equal(t, "Dear team, thanks for the help.", got.Response)
	assert.Equal(t, model.DifficultyMedium, got.Difficulty)
	assert.Equal(t, "note-01", got.Title)

	_, err = ImportText(c, model.Exercise{ID: "empty"}, "   ", dir, false)
	assert.Error(t, err)
}

func TestLoadJoinsResponseLines(t *testing.T) {
	dir := t.TempDir()
	body := `exercises:
  - id: lines-01
    title: "Two Lines"
    difficulty: easy
    response: |
      First line.
      Second   line.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lines.yaml"), []byte(body), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	ex, ok := c.Get("lines-01")
	require.True(t, ok)
	assert.Equal(t, "First line. Second line.", ex.Response)
}
