package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var keyboardRows = []string{
	"1 2 3 4 5 6 7 8 9 0",
	"q w e r t y u i o p",
	"a s d f g h j k l",
	"z x c v b n m",
}

// renderKeyboard draws the on-screen keyboard panel shown in touch mode.
// input is the rendered text field that receives keystrokes.
func renderKeyboard(input string, width int) string {
	lines := make([]string, 0, len(keyboardRows)+2)
	lines = append(lines, input)
	for _, row := range keyboardRows {
		lines = append(lines, keyStyle.Render(row))
	}
	lines = append(lines, keyStyle.Render("[ "+strings.Repeat(" ", 11)+"space"+strings.Repeat(" ", 11)+" ]"))
	panel := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return keyboardStyle.Width(max(1, width-2)).Render(panel)
}
