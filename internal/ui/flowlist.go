package ui

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/format/table"
	uistate "github.com/atomicstack/flowview/internal/ui/state"
)

var flowColumns = []table.Alignment{
	table.AlignLeft,
	table.AlignLeft,
	table.AlignLeft,
	table.AlignRight,
	table.AlignRight,
	table.AlignLeft,
}

// flowCells splits one flow into list columns: marker, method, url, status,
// size, content type.
func flowCells(f *flow.Flow) []string {
	marker := " "
	switch {
	case f.Error != "":
		marker = "x"
	case f.Intercepted:
		marker = "!"
	case f.Modified():
		marker = "*"
	}
	req := f.Request
	cells := []string{marker, "", "", "", "", ""}
	if req != nil {
		cells[1] = req.Method
		cells[2] = req.URL()
	}
	resp := f.Response
	if resp == nil {
		return cells
	}
	cells[3] = strconv.Itoa(resp.StatusCode)
	if raw, ok := resp.RawContent(); ok {
		cells[4] = humanize.Bytes(uint64(len(raw)))
	}
	cells[5] = resp.ContentType()
	return cells
}

// flowItems formats every flow in c as an aligned list row.
func flowItems(c *flow.Collection) []uistate.Item {
	flows := c.Flows()
	if len(flows) == 0 {
		return nil
	}
	rows := make([][]string, len(flows))
	for i, f := range flows {
		rows[i] = flowCells(f)
	}
	lines := table.Format(rows, flowColumns)
	items := make([]uistate.Item, len(flows))
	for i, f := range flows {
		items[i] = uistate.Item{ID: f.ID, Label: lines[i]}
		if f.Intercepted {
			items[i].Hint = "intercepted"
		}
	}
	return items
}

func (m *Model) refreshList() {
	m.list.UpdateItems(flowItems(m.inspector.Flows()))
	m.syncListViewport()
}

func (m *Model) syncListViewport() {
	if m.list == nil {
		return
	}
	m.list.Cursor = m.inspector.Flows().FocusIndex()
	m.list.ScrollToCursor(m.listRows())
}

func (m *Model) listRows() int {
	rows := m.height - 2 - m.footerLines()
	if rows < 1 {
		return 1
	}
	return rows
}

func (m *Model) footerLines() int {
	if m.showFooter {
		return 1
	}
	return 0
}
