package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/texuddy/texuddy/internal/model"
	"github.com/texuddy/texuddy/internal/retype"
)

const (
	pickerHeaderHeight = 2
	pickerFooterHeight = 2
	stackedWidth       = 90
)

func newExerciseTable() table.Model {
	t := table.New(
		table.WithColumns(exerciseColumns(60)),
		table.WithFocused(true),
		table.WithHeight(5),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1E1E1E")).
		Background(lipgloss.Color("#C89A3A")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

func exerciseColumns(width int) []table.Column {
	fixed := 20 + 8 + 6
	title := max(12, width-fixed-8)
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Category", Width: 20},
		{Title: "Level", Width: 8},
		{Title: "Words", Width: 6},
	}
}

func exerciseRows(exercises []model.Exercise) []table.Row {
	rows := make([]table.Row, 0, len(exercises))
	for _, ex := range exercises {
		rows = append(rows, table.Row{
			ex.Title,
			ex.Category,
			string(ex.Difficulty),
			fmt.Sprintf("%d", retype.NewText(ex.Response).WordCount()),
		})
	}
	return rows
}

func (m *Model) panelSizes() (tableW, previewW, bodyH int, stacked bool) {
	bodyH = max(3, m.height-pickerHeaderHeight-pickerFooterHeight)
	if m.width < stackedWidth {
		return m.width, m.width, bodyH, true
	}
	tableW = m.width * 55 / 100
	return tableW, m.width - tableW, bodyH, false
}

func (m *Model) layoutPicker() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	tableW, previewW, bodyH, stacked := m.panelSizes()
	tableH, previewH := bodyH, bodyH
	if stacked {
		tableH = bodyH / 2
		previewH = bodyH - tableH
	}
	m.table.SetColumns(exerciseColumns(tableW))
	m.table.SetWidth(tableW)
	m.table.SetHeight(max(2, tableH-1))
	m.preview.Width = max(1, previewW-2)
	m.preview.Height = max(1, previewH-2)
	m.renderPreview()
}

func (m *Model) renderPreview() {
	ex, ok := m.selected()
	if !ok {
		m.preview.SetContent("")
		return
	}
	width := max(20, m.preview.Width)
	if m.renderer == nil || m.rendererW != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(width-2),
		)
		if err != nil {
			m.logger.Warn("failed to create markdown renderer", zap.Error(err))
			m.preview.SetContent(previewMarkdown(ex))
			return
		}
		m.renderer = r
		m.rendererW = width
	}
	out, err := m.renderer.Render(previewMarkdown(ex))
	if err != nil {
		m.logger.Warn("failed to render preview", zap.String("exercise", ex.ID), zap.Error(err))
		out = previewMarkdown(ex)
	}
	m.preview.SetContent(strings.TrimRight(out, "\n"))
	m.preview.GotoTop()
}

func previewMarkdown(ex model.Exercise) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", ex.Title)
	fmt.Fprintf(&b, "**From:** %s  \n**Category:** %s  \n**Difficulty:** %s\n\n", ex.From, ex.Category, ex.Difficulty)
	if ex.Prompt != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(ex.Prompt, "\n", "\n> "))
	}
	if len(ex.Keywords) > 0 {
		fmt.Fprintf(&b, "*%s*\n", strings.Join(ex.Keywords, " · "))
	}
	return b.String()
}

func (m *Model) viewPicker() string {
	header := fitLines(m.renderPickerHeader(), m.width, pickerHeaderHeight)
	_, _, bodyH, stacked := m.panelSizes()

	var body string
	if len(m.available) == 0 {
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			titleStyle.Render("Nothing left to practice here. 🎉"))
	} else {
		tbl := m.table.View()
		prev := previewStyle.Render(m.preview.View())
		if stacked {
			body = lipgloss.JoinVertical(lipgloss.Left, tbl, prev)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, tbl, prev)
		}
	}
	body = fitLines(body, m.width, bodyH)
	footer := fitLines(m.renderPickerFooter(), m.width, pickerFooterHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderPickerHeader() string {
	s := m.summary
	greeting := "Texuddy"
	if name := strings.TrimSpace(m.opts.Profile.Name); name != "" {
		greeting = fmt.Sprintf("Texuddy · hi %s", name)
	}
	status := fmt.Sprintf("Level %d · %d completed · %d points · %d day streak",
		s.Level.Level, s.Completed, s.Points, s.Streak)
	if !s.Level.Max {
		status += fmt.Sprintf(" · %d to level %d", s.Level.Needed, s.Level.NextLevel)
	}
	if s.HasNextBadge {
		status += fmt.Sprintf(" · next badge %s %s at %d", s.NextBadge.Emoji, s.NextBadge.Name, s.NextBadge.Required)
	}
	return titleStyle.Render(greeting) + "\n" + mutedStyle.Render(truncateLine(status, m.width))
}

func (m *Model) renderPickerFooter() string {
	line := ""
	switch {
	case m.errMsg != "":
		line = errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.result != "":
		line = resultStyle.Render(truncateLine(m.result, m.width))
	}
	help := footerStyle.Render("enter start  r random  s skip  pgup/pgdn preview  q quit")
	return line + "\n" + help
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
