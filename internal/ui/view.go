package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/flowview/internal/format/table"
	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/logging"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var lines []styledLine
	switch {
	case m.prompt != nil && m.prompt.chooser != nil:
		lines = m.viewChooser()
	case m.screen == ScreenFlow:
		lines = m.viewFlow()
	case m.screen == ScreenHelp || m.screen == ScreenEventLog:
		lines = m.viewPager()
	default:
		lines = m.viewList()
	}
	lines = append(lines, m.statusLine())
	if m.showFooter {
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) viewList() []styledLine {
	flows := m.inspector.Flows()
	lines := make([]styledLine, 0, m.listRows()+1)
	lines = append(lines, styledLine{text: fmt.Sprintf("Flows (%d)", flows.Len()), style: styles.Header})
	if len(m.list.Items) == 0 {
		lines = append(lines, styledLine{text: "No flows.", style: styles.Pending})
		return padLines(lines, m.listRows()+1)
	}
	m.syncListViewport()
	start := m.list.Offset
	end := start + m.listRows()
	if end > len(m.list.Items) {
		end = len(m.list.Items)
	}
	for i := start; i < end; i++ {
		item := m.list.Items[i]
		prefix := "  "
		style := styles.Item
		if i == m.list.Cursor {
			prefix = "» "
			style = styles.SelectedItem
		} else if item.Hint != "" {
			style = styles.Intercepted
		}
		lines = append(lines, styledLine{text: prefix + item.Label, style: style})
	}
	return padLines(lines, m.listRows()+1)
}

func (m *Model) viewFlow() []styledLine {
	f := m.inspector.Flow()
	if f == nil {
		return m.viewList()
	}
	m.refreshBody()
	summary := f.ID
	if f.Request != nil {
		summary = startLine(f.Request)
	}
	if f.Response != nil {
		summary = fmt.Sprintf("%s  %d", summary, f.Response.StatusCode)
	}
	lines := []styledLine{
		{text: summary, style: styles.Header},
		{text: m.tabBar(f), raw: true},
	}
	for _, line := range strings.Split(m.body.View(), "\n") {
		lines = append(lines, styledLine{text: line, raw: true})
	}
	return lines
}

func (m *Model) viewPager() []styledLine {
	title := "Key bindings"
	if m.screen == ScreenEventLog {
		title = "Event log"
	}
	lines := []styledLine{{text: title, style: styles.Header}}
	for _, line := range strings.Split(m.pager.View(), "\n") {
		lines = append(lines, styledLine{text: line, raw: true})
	}
	return lines
}

func (m *Model) viewChooser() []styledLine {
	chooser := m.prompt.chooser
	rows := m.chooserRows()
	lines := []styledLine{
		{text: chooser.Title, style: styles.Prompt},
		{text: filterLine(chooser), raw: true},
	}
	m.syncChooserViewport()
	start := chooser.Offset
	end := start + rows
	if end > len(chooser.Items) {
		end = len(chooser.Items)
	}
	for i := start; i < end; i++ {
		item := chooser.Items[i]
		indicator, label := styles.ItemIndicator.Render("  "), styles.Item.Render(item.Label)
		if i == chooser.Cursor {
			indicator, label = styles.SelectedItemIndicator.Render("» "), styles.SelectedItem.Render(item.Label)
		}
		text := indicator + label
		if item.Hint != "" {
			text += "  " + styles.PromptKey.Render(item.Hint)
		}
		lines = append(lines, styledLine{text: text, raw: true})
	}
	if len(chooser.Items) == 0 {
		lines = append(lines, styledLine{text: "No matches.", style: styles.Pending})
	}
	total := m.height - 1 - m.footerLines()
	return padLines(lines, total)
}

// statusLine shows the open prompt, a notice or running tasks, in that order.
func (m *Model) statusLine() styledLine {
	if m.prompt != nil {
		p := m.prompt.prompt
		switch {
		case m.prompt.form != nil:
			text := styles.Prompt.Render(p.Title+": ") + m.prompt.form.InputView()
			return styledLine{text: text, raw: true}
		case m.prompt.chooser != nil:
			return styledLine{text: "enter: select  esc: cancel", style: styles.Footer}
		default:
			return styledLine{text: oneKeyPrompt(p), raw: true}
		}
	}
	if notice := m.currentNotice(); notice != "" {
		style := styles.Info
		switch m.noticeSeverity {
		case inspect.SeverityWarn:
			style = styles.Warn
		case inspect.SeverityError:
			style = styles.Error
		}
		return styledLine{text: notice, style: style}
	}
	if pending := m.pendingLabel(); pending != "" {
		return styledLine{text: pending, style: styles.Pending}
	}
	return styledLine{}
}

func oneKeyPrompt(p *inspect.Prompt) string {
	parts := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		parts[i] = styles.PromptKey.Render(c.Key) + "=" + c.Label
	}
	return styles.Prompt.Render(p.Title) + " (" + strings.Join(parts, ", ") + ")"
}

func (m *Model) footerText() string {
	switch m.screen {
	case ScreenFlow:
		return "tab: switch tab  m: mode  f: full  q: back  ?: help"
	case ScreenHelp, ScreenEventLog:
		return "↑/↓: scroll  q: back"
	default:
		return "↑/↓: move  enter: view  d: delete  ?: help  q: quit"
	}
}

func (m *Model) helpContent() string {
	entries := m.inspector.Keys().Help()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Keys, e.Description}
	}
	lines := table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft})
	for i, line := range lines {
		width := len(entries[i].Keys)
		pad := len(line) - len(strings.TrimLeft(line, " "))
		lines[i] = line[:pad] + styles.PromptKey.Render(line[pad:pad+width]) + line[pad+width:]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) eventLogContent() string {
	entries := logging.Recent()
	if len(entries) == 0 {
		return styles.Pending.Render("No events.")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		style := styles.Info
		switch e.Level {
		case logging.LevelWarn:
			style = styles.Warn
		case logging.LevelError:
			style = styles.Error
		}
		lines[i] = fmt.Sprintf("%s %s", e.Time.Format("15:04:05"), style.Render(e.Message))
	}
	return strings.Join(lines, "\n")
}

func padLines(lines []styledLine, height int) []styledLine {
	for len(lines) < height {
		lines = append(lines, styledLine{})
	}
	return lines
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil || line.text == "" {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
