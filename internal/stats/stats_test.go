package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/texuddy/texuddy/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	if got := SessionMetrics(60, 60); got != 60 {
		t.Fatalf("expected 60 wpm, got %.2f", got)
	}
	if got := SessionMetrics(45, 30); got != 90 {
		t.Fatalf("expected 90 wpm, got %.2f", got)
	}
	if got := SessionMetrics(10, 0); got != 0 {
		t.Fatalf("expected 0 wpm for zero duration, got %.2f", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{Words: 60, ElapsedSeconds: 60, Points: 90},
		{Words: 30, ElapsedSeconds: 20, Points: 45},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Sessions: 2", "Words: 90", "Time: 1m20s", "Points: 135", "Avg WPM: 75.00", "Best WPM: 90.00"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("summary missing %q:\n%s", needle, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderCategoryTableOrdersBySessions(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.CategoryAggregate{
		{Category: "Marketing", Sessions: 1, Words: 50, ElapsedSeconds: 60, Points: 75},
		{Category: "Retail Sales", Sessions: 3, Words: 150, ElapsedSeconds: 180, Points: 225},
	}
	if err := RenderCategoryTable(&buf, aggs); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "Retail Sales") {
		t.Fatalf("expected most practiced first, got %q", lines[2])
	}
	if !strings.Contains(lines[2], "50.0") {
		t.Fatalf("expected avg wpm in row: %q", lines[2])
	}
}

func TestRenderCurvesTruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	sessions := make([]model.SessionAggregate, 30)
	for i := range sessions {
		sessions[i] = model.SessionAggregate{Words: 10 + i, ElapsedSeconds: 60, Points: i}
	}
	if err := RenderCurves(&buf, sessions, 1, 12); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Learning Curves" {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	if !strings.Contains(lines[1], "@") {
		t.Fatalf("expected sparkline in %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "39.0") {
		t.Fatalf("expected latest wpm at end of %q", lines[1])
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[int]string{0: "0s", 7: "7s", 125: "2m05s", 3723: "1h02m03s", -4: "0s"}
	for in, want := range cases {
		if got := FormatSeconds(in); got != want {
			t.Fatalf("FormatSeconds(%d) = %q, want %q", in, got, want)
		}
	}
}
