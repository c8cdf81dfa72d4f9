package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/texuddy/texuddy/internal/model"
	"github.com/texuddy/texuddy/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "texuddy.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	categories := []string{"Marketing", "Retail Sales", "Retail Sales"}
	for i, category := range categories {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		id, err := st.InsertSession(ctx, model.SessionStats{
			ExerciseID:     "scenario-02",
			Title:          "Handling Difficult Customer In-Person",
			Category:       category,
			Difficulty:     model.DifficultyEasy,
			StartedAt:      start,
			EndedAt:        end,
			Words:          20,
			Chars:          100,
			ElapsedSeconds: 30,
			Points:         30,
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != ids[2] {
		t.Fatalf("unexpected window session ids: %v", report.WindowSessionIDs)
	}
	if len(report.Categories) != 1 || report.Categories[0].Sessions != 2 {
		t.Fatalf("expected one category with 2 sessions, got %+v", report.Categories)
	}
	if len(report.CategoriesWindow) != 1 || report.CategoriesWindow[0].Sessions != 1 {
		t.Fatalf("expected one window category with 1 session, got %+v", report.CategoriesWindow)
	}
}

func TestBuildReportFiltersCategory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "texuddy.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	for i, category := range []string{"Marketing", "Photographer"} {
		end := time.Unix(int64(i)*60, 0)
		if _, err := st.InsertSession(ctx, model.SessionStats{
			ExerciseID: category, Category: category, Difficulty: model.DifficultyHard,
			StartedAt: end.Add(-time.Minute), EndedAt: end, Words: 10, ElapsedSeconds: 60,
		}); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Category: "Photographer"})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 1 || report.Sessions[0].Category != "Photographer" {
		t.Fatalf("expected only Photographer sessions, got %+v", report.Sessions)
	}
}
