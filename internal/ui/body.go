package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/atomicstack/flowview/internal/contentview"
	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/format/table"
	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/state"
)

var headerColumns = []table.Alignment{table.AlignLeft, table.AlignLeft}

func (m *Model) bodyHeight() int {
	rows := m.height - 3 - m.footerLines()
	if rows < 1 {
		return 1
	}
	return rows
}

func (m *Model) pagerHeight() int {
	rows := m.height - 2 - m.footerLines()
	if rows < 1 {
		return 1
	}
	return rows
}

// refreshBody renders the focused flow's active tab into the body viewport
// when the flow, the tab or the flow contents changed.
func (m *Model) refreshBody() {
	f := m.inspector.Flow()
	if f == nil {
		m.body.SetContent("")
		m.bodyFlowID = ""
		m.bodyTitle = ""
		return
	}
	tab := m.inspector.Tab()
	moved := f.ID != m.bodyFlowID || tab != m.bodyTab
	if !m.bodyStale && !moved {
		return
	}
	var lines []string
	if tab.HasMessage() {
		lines = m.messageLines(f, tab)
	} else {
		m.bodyTitle = ""
		lines = detailLines(f)
	}
	for i, line := range lines {
		lines[i] = clip(line, m.width)
	}
	m.body.SetContent(strings.Join(lines, "\n"))
	if moved {
		m.body.GotoTop()
	}
	m.bodyFlowID = f.ID
	m.bodyTab = tab
	m.bodyStale = false
}

func (m *Model) messageLines(f *flow.Flow, tab state.Tab) []string {
	title, rendered := m.inspector.Render(f, tab)
	m.bodyTitle = title
	msg := f.Request
	if tab == state.TabResponse {
		msg = f.Response
	}
	lines := make([]string, 0, len(rendered)+16)
	if msg != nil {
		lines = append(lines, styles.Header.Render(startLine(msg)))
		lines = append(lines, headerLines(msg)...)
		lines = append(lines, "")
	}
	if title != "" {
		lines = append(lines, styles.BodyTitle.Render(title))
	}
	for _, line := range rendered {
		lines = append(lines, styles.RenderLine(line))
	}
	return lines
}

func startLine(msg *flow.Message) string {
	if msg.IsRequest() {
		return strings.TrimSpace(fmt.Sprintf("%s %s %s", msg.Method, msg.URL(), msg.HTTPVersion))
	}
	return strings.TrimSpace(fmt.Sprintf("%s %d %s", msg.HTTPVersion, msg.StatusCode, msg.Reason))
}

func headerLines(msg *flow.Message) []string {
	fields := msg.Headers().Fields()
	if len(fields) == 0 {
		return nil
	}
	rows := make([][]string, len(fields))
	for i, field := range fields {
		rows[i] = []string{field.Name + ":", field.Value}
	}
	lines := table.Format(rows, headerColumns)
	keyStyle := styles.BodyStyle(contentview.StyleKey)
	for i, line := range lines {
		name := len(fields[i].Name) + 1
		lines[i] = keyStyle.Render(line[:name]) + line[name:]
	}
	return lines
}

func detailLines(f *flow.Flow) []string {
	rows := [][]string{
		{"Client", orDash(f.ClientAddr)},
		{"Server", orDash(f.ServerAddr)},
	}
	if !f.Created.IsZero() {
		rows = append(rows, []string{"Created", f.Created.Format(time.RFC3339) + " (" + humanize.Time(f.Created) + ")"})
	}
	if f.Request != nil {
		rows = append(rows, []string{"Request", sizeOf(f.Request)})
	}
	if f.Response != nil {
		rows = append(rows, []string{"Response", sizeOf(f.Response)})
	}
	rows = append(rows,
		[]string{"Intercepted", yesNo(f.Intercepted)},
		[]string{"Modified", yesNo(f.Modified())},
	)
	lines := table.Format(rows, headerColumns)
	if f.Error != "" {
		lines = append(lines, "", styles.Error.Render("Error: "+f.Error))
	}
	return lines
}

func sizeOf(msg *flow.Message) string {
	raw, ok := msg.RawContent()
	if !ok {
		return "no content"
	}
	return humanize.Bytes(uint64(len(raw)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// clip cuts an ANSI styled line to width cells.
func clip(line string, width int) string {
	if width <= 0 {
		return line
	}
	return ansi.Truncate(line, width, "")
}

// tabBar draws the three tab labels with the active one highlighted.
func (m *Model) tabBar(f *flow.Flow) string {
	labels := inspect.TabLabels(f)
	plain := inspect.TabLabels(nil)
	active := m.inspector.Tab()
	parts := make([]string, len(labels))
	for i, label := range labels {
		style := styles.Tab
		switch {
		case state.Tab(i) == active:
			style = styles.ActiveTab
		case label != plain[i]:
			style = styles.Intercepted
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, "")
}
