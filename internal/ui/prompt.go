package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/logging/events"
	uistate "github.com/atomicstack/flowview/internal/ui/state"
)

// promptState is the question the inspector is waiting on. Exactly one of
// form or chooser is set for path and chooser prompts; one-key prompts use
// neither.
type promptState struct {
	prompt  *inspect.Prompt
	form    *pathForm
	chooser *level
}

func (m *Model) openPrompt(p *inspect.Prompt) {
	if p == nil {
		return
	}
	ps := &promptState{prompt: p}
	switch p.Kind {
	case inspect.PromptPath:
		ps.form = newPathForm(p.Title)
	case inspect.PromptChooser:
		items := make([]uistate.Item, 0, len(p.Choices))
		for _, c := range p.Choices {
			items = append(items, uistate.Item{ID: c.Value, Label: c.Label, Hint: c.Key})
		}
		ps.chooser = uistate.NewLevel("prompt:"+string(p.Action), p.Title, items)
		if !ps.chooser.Select(p.Selected) {
			ps.chooser.MoveCursorHome()
		}
	}
	m.prompt = ps
	m.syncChooserViewport()
}

func (m *Model) closePrompt() *inspect.Prompt {
	if m.prompt == nil {
		return nil
	}
	p := m.prompt.prompt
	m.prompt = nil
	return p
}

func (m *Model) cancelPrompt(reason events.PromptReason) {
	if p := m.closePrompt(); p != nil {
		m.inspector.Cancel(p, reason)
	}
}

func (m *Model) answerPrompt(value string) tea.Cmd {
	p := m.closePrompt()
	if p == nil {
		return nil
	}
	return m.applyOutcome(m.inspector.Answer(p, value))
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	ps := m.prompt
	switch ps.prompt.Kind {
	case inspect.PromptPath:
		return m.handlePathPromptKey(msg)
	case inspect.PromptChooser:
		return m.handleChooserKey(msg)
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC {
		m.cancelPrompt(events.ReasonEscape)
		return nil
	}
	return m.answerPrompt(msg.String())
}

func (m *Model) handlePathPromptKey(msg tea.KeyMsg) tea.Cmd {
	form := m.prompt.form
	cmd, done, cancel := form.Update(msg)
	if cancel {
		m.cancelPrompt(events.ReasonEscape)
		return cmd
	}
	if done {
		return m.answerPrompt(form.Value())
	}
	return cmd
}

func (m *Model) handleChooserKey(msg tea.KeyMsg) tea.Cmd {
	chooser := m.prompt.chooser
	switch msg.String() {
	case "esc", "ctrl+c":
		m.cancelPrompt(events.ReasonEscape)
		return nil
	case "enter":
		item, ok := chooser.Current()
		if !ok {
			return nil
		}
		events.UI.Choose(chooser.ID, item.ID)
		return m.answerPrompt(item.ID)
	case "up", "ctrl+p":
		m.moveChooserCursor(-1)
		return nil
	case "down", "ctrl+n":
		m.moveChooserCursor(1)
		return nil
	case "home":
		chooser.MoveCursorHome()
		m.syncChooserViewport()
		return nil
	case "end":
		chooser.MoveCursorEnd()
		m.syncChooserViewport()
		return nil
	}
	m.handleTextInput(chooser, msg)
	return nil
}

func (m *Model) moveChooserCursor(delta int) {
	chooser := m.prompt.chooser
	if !chooser.MoveCursor(delta) {
		return
	}
	events.UI.Cursor(chooser.ID, chooser.Cursor)
	m.syncChooserViewport()
}

func (m *Model) syncChooserViewport() {
	if m.prompt == nil || m.prompt.chooser == nil {
		return
	}
	m.prompt.chooser.ScrollToCursor(m.chooserRows())
}

// chooserRows is how many choices fit under the chooser title and filter.
func (m *Model) chooserRows() int {
	rows := m.height - 3 - m.footerLines()
	if rows < 1 {
		return 1
	}
	return rows
}
