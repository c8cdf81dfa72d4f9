package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/texuddy/texuddy/internal/retype"
)

// toKeys converts a terminal key event into matcher events. Pasted or
// buffered input can carry several runes in one message.
func toKeys(msg tea.KeyMsg) []retype.Key {
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]retype.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, retype.Key{Kind: retype.KeyRune, Rune: r, Alt: msg.Alt})
		}
		return keys
	case tea.KeySpace:
		return []retype.Key{{Kind: retype.KeyRune, Rune: ' ', Alt: msg.Alt}}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []retype.Key{{Kind: retype.KeyBackspace, Alt: msg.Alt}}
	case tea.KeyUp:
		return []retype.Key{{Kind: retype.KeyUp, Alt: msg.Alt}}
	case tea.KeyDown:
		return []retype.Key{{Kind: retype.KeyDown, Alt: msg.Alt}}
	}
	if isCtrl(msg.Type) {
		return []retype.Key{{Kind: retype.KeyOther, Ctrl: true}}
	}
	return []retype.Key{{Kind: retype.KeyOther, Alt: msg.Alt}}
}

func isCtrl(t tea.KeyType) bool {
	return t >= tea.KeyCtrlAt && t <= tea.KeyCtrlUnderscore && t != tea.KeyCtrlH
}
