package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/texuddy/texuddy/internal/model"
	"github.com/texuddy/texuddy/internal/progress"
	statsPkg "github.com/texuddy/texuddy/internal/stats"
)

// completion is the outcome shown after a recorded exercise. level is
// non-zero only when a new level was reached.
type completion struct {
	exercise model.Exercise
	topics   []string
	words    int
	elapsed  int
	wpm      float64
	points   int
	total    int
	level    int
	badges   []progress.Badge
}

var completeCardStyle = lipgloss.NewStyle().
	Padding(1, 3).
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(lipgloss.Color("#4A4A4A"))

func (c completion) View(width, height int, hasNext bool) string {
	lines := []string{
		titleStyle.Render("✅ Nice work!"),
		"",
		titleStyle.Render(c.exercise.Title),
		mutedStyle.Render(fmt.Sprintf("%s · %s", c.exercise.Category, c.exercise.Difficulty)),
		"",
		fmt.Sprintf("Time spent  %s", statsPkg.FormatSeconds(c.elapsed)),
		fmt.Sprintf("Words       %d", c.words),
		fmt.Sprintf("Speed       %.1f WPM", c.wpm),
		fmt.Sprintf("Points      +%d (%s total)", c.points, humanize.Comma(int64(c.total))),
	}
	if len(c.topics) > 0 {
		lines = append(lines, mutedStyle.Render("Topics      "+strings.Join(c.topics, " · ")))
	}
	if c.level > 0 {
		lines = append(lines, "", resultStyle.Render(fmt.Sprintf("Level %d reached", c.level)))
	}
	for _, b := range c.badges {
		lines = append(lines, resultStyle.Render(fmt.Sprintf("%s %s unlocked", b.Emoji, b.Name)))
	}
	card := completeCardStyle.Render(strings.Join(lines, "\n"))
	body := lipgloss.Place(width, max(1, height-1), lipgloss.Center, lipgloss.Center, card)

	help := "enter/esc back"
	if hasNext {
		help = "n next  " + help
	}
	return body + "\n" + lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, footerStyle.Render(help))
}
