package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Category", "Avg WPM", "Points"}
	rows := [][]string{
		{"Retail Sales", "41.5", "90"},
		{"Tutor / Educator", "8.0", "7"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if want := "Category" + strings.Repeat(" ", 9) + "Avg WPM Points"; lines[0] != want {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if want := "Retail Sales" + strings.Repeat(" ", 8) + "41.5" + strings.Repeat(" ", 5) + "90"; lines[1] != want {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if want := "Tutor / Educator" + strings.Repeat(" ", 5) + "8.0" + strings.Repeat(" ", 6) + "7"; lines[2] != want {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"日本", "1"}}, nil)
	if lines[1] != "日本 1" {
		t.Fatalf("expected wide runes to count double: %q", lines[1])
	}
}

func TestFormatTableTruncates(t *testing.T) {
	lines := FormatTable([]string{"Title"}, [][]string{{"Handling Difficult Customer"}}, nil, 10)
	if lines[1] != "Handlin..." {
		t.Fatalf("unexpected truncation: %q", lines[1])
	}
}
