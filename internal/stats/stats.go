// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/texuddy/texuddy/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes words per minute for a session measured in whole
// seconds.
func SessionMetrics(words, elapsedSeconds int) float64 {
	if elapsedSeconds <= 0 || words <= 0 {
		return 0
	}
	minutes := float64(elapsedSeconds) / 60.0
	return float64(words) / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, bestWPM float64
	words, seconds, points := 0, 0, 0
	for _, s := range sessions {
		wpm := SessionMetrics(s.Words, s.ElapsedSeconds)
		totalWPM += wpm
		bestWPM = math.Max(bestWPM, wpm)
		words += s.Words
		seconds += s.ElapsedSeconds
		points += s.Points
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Words: %d", words),
		fmt.Sprintf("Time: %s", FormatSeconds(seconds)),
		fmt.Sprintf("Points: %d", points),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/float64(len(sessions))),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and points sparklines smoothed over window
// sessions, truncated to the last width points when width > 0.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	points := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = SessionMetrics(s.Words, s.ElapsedSeconds)
		points[i] = float64(s.Points)
	}
	wpms = tail(MovingAverage(wpms, window), width)
	points = tail(MovingAverage(points, window), width)

	rows := [][]string{
		{"WPM", Sparkline(wpms), fmt.Sprintf("%.1f", wpms[len(wpms)-1])},
		{"Points", Sparkline(points), fmt.Sprintf("%.0f", points[len(points)-1])},
	}
	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// SortCategories returns a copy of aggs ordered by session count, most
// practiced first.
func SortCategories(aggs []model.CategoryAggregate) []model.CategoryAggregate {
	rows := make([]model.CategoryAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sessions == rows[j].Sessions {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Sessions > rows[j].Sessions
	})
	return rows
}

// RenderCategoryTable prints per-category aggregates, most practiced first.
func RenderCategoryTable(w io.Writer, aggs []model.CategoryAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No category stats found.")
		return err
	}
	rows := SortCategories(aggs)

	if _, err := fmt.Fprintln(w, "Per-Category"); err != nil {
		return err
	}
	headers := []string{"Category", "Sessions", "Words", "Avg WPM", "Points"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Category,
			fmt.Sprintf("%d", r.Sessions),
			fmt.Sprintf("%d", r.Words),
			fmt.Sprintf("%.1f", SessionMetrics(r.Words, r.ElapsedSeconds)),
			fmt.Sprintf("%d", r.Points),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FormatSeconds renders a duration as 1h02m03s, 2m05s or 7s.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
