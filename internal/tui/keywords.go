package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/texuddy/texuddy/internal/model"
)

// topicsWanted is how many keywords the learner picks before retyping.
const topicsWanted = 3

type topicsPickedMsg struct {
	exercise model.Exercise
	topics   []string
}

var (
	topicStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	topicOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	topicCurStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// keywordsModel lets the learner choose the topics the response covers.
type keywordsModel struct {
	exercise model.Exercise
	cursor   int
	selected []string
}

func newKeywordsModel(ex model.Exercise) *keywordsModel {
	return &keywordsModel{exercise: ex}
}

// needsTopics reports whether ex offers enough keywords for the topic step.
func needsTopics(ex model.Exercise) bool {
	return len(ex.Keywords) >= topicsWanted
}

func (k *keywordsModel) isSelected(kw string) bool {
	return slices.Contains(k.selected, kw)
}

// toggle flips kw; at most topicsWanted keywords can be selected.
func (k *keywordsModel) toggle(kw string) {
	if i := slices.Index(k.selected, kw); i >= 0 {
		k.selected = slices.Delete(k.selected, i, i+1)
		return
	}
	if len(k.selected) < topicsWanted {
		k.selected = append(k.selected, kw)
	}
}

func (k *keywordsModel) ready() bool {
	return len(k.selected) == topicsWanted
}

func (k *keywordsModel) Update(msg tea.KeyMsg) tea.Cmd {
	n := len(k.exercise.Keywords)
	switch msg.String() {
	case "esc":
		return emit(backMsg{})
	case "up", "k":
		if k.cursor > 0 {
			k.cursor--
		}
	case "down", "j":
		if k.cursor < n-1 {
			k.cursor++
		}
	case " ", "space", "x":
		if n > 0 {
			k.toggle(k.exercise.Keywords[k.cursor])
		}
	case "enter":
		if !k.ready() {
			return nil
		}
		return emit(topicsPickedMsg{exercise: k.exercise, topics: slices.Clone(k.selected)})
	}
	return nil
}

func (k *keywordsModel) View(width, height int) string {
	lines := []string{
		titleStyle.Render(k.exercise.Title),
		mutedStyle.Render(fmt.Sprintf("Pick %d topics to include:", topicsWanted)),
		"",
	}
	for i, kw := range k.exercise.Keywords {
		mark := "[ ]"
		style := topicStyle
		if k.isSelected(kw) {
			mark = "[x]"
			style = topicOnStyle
		}
		prefix := "  "
		if i == k.cursor {
			prefix = "› "
			if !k.isSelected(kw) {
				style = topicCurStyle
			}
		}
		lines = append(lines, style.Render(prefix+mark+" "+kw))
	}
	lines = append(lines, "")
	status := fmt.Sprintf("%d / %d picked", len(k.selected), topicsWanted)
	if k.ready() {
		status = resultStyle.Render(status + " · enter to start")
	} else {
		status = mutedStyle.Render(status)
	}
	lines = append(lines, status)

	body := lipgloss.Place(width, max(1, height-1), lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
	help := footerStyle.Render("↑/↓ move  space toggle  enter start  esc back")
	return body + "\n" + lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, help)
}
