package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/logging/events"
)

// handleTextInput edits the filter of l and reports whether msg was consumed.
// The filter is only ever edited at its end.
func (m *Model) handleTextInput(l *level, msg tea.KeyMsg) bool {
	if l == nil {
		return false
	}
	switch msg.String() {
	case "ctrl+u":
		if !l.ClearFilter() {
			return false
		}
		events.Filter.Cleared(l.ID)
		m.syncChooserViewport()
		return true
	case "ctrl+w":
		if !l.DeleteFilterWord() {
			return false
		}
		events.Filter.WordBackspace(l.ID, l.Filter)
		m.syncChooserViewport()
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !l.DeleteFilterRune() {
			return false
		}
		events.Filter.Backspace(l.ID, l.Filter)
		m.syncChooserViewport()
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToFilter(l, string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(l, " ")
	}
	return false
}

func (m *Model) appendToFilter(l *level, text string) bool {
	if !l.AppendFilter(text) {
		return false
	}
	events.Filter.Append(l.ID, l.Filter)
	m.syncChooserViewport()
	return true
}

// filterLine draws the filter followed by a block cursor.
func filterLine(l *level) string {
	prompt := styles.FilterPrompt.Render("» ")
	if l == nil {
		return prompt
	}
	line := prompt + styles.Filter.Render(l.Filter) + styles.Cursor.Render(" ")
	if l.Filter == "" {
		line += styles.FilterPlaceholder.Render(" type to filter")
	}
	return line
}
