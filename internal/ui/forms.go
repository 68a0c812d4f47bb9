package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// pathForm collects a file path for save, export and script prompts.
type pathForm struct {
	input textinput.Model
	title string
	help  string
}

func newPathForm(title string) *pathForm {
	ti := textinput.New()
	ti.Placeholder = "path"
	ti.CharLimit = 1024
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.Cursor != nil {
		ti.Cursor.Style = *styles.Cursor
	}
	ti.Focus()
	return &pathForm{
		input: ti,
		title: title,
		help:  "Enter to confirm. Esc to cancel.",
	}
}

func (f *pathForm) Title() string     { return f.title }
func (f *pathForm) Help() string      { return f.help }
func (f *pathForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *pathForm) InputView() string { return f.input.View() }

// Update feeds msg to the input and reports whether the form was submitted
// or cancelled.
func (f *pathForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+u":
			if f.input.Value() != "" {
				f.input.SetValue("")
				f.input.CursorStart()
			}
			return nil, false, false
		}
		switch keyMsg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return nil, false, true
		case tea.KeyEnter:
			return nil, true, false
		}
	}
	updated, cmd := f.input.Update(msg)
	f.input = updated
	return cmd, false, false
}
