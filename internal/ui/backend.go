package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/backend"
	"github.com/atomicstack/flowview/internal/inspect"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.merger.Handle(evt)
	if res.Err != nil {
		m.setNotice(fmt.Sprintf("Capture reload failed: %v", res.Err), inspect.SeverityWarn)
		return
	}
	if !res.FlowsUpdated {
		return
	}
	m.refreshList()
	m.bodyStale = true
	if m.verbose {
		m.setNotice(fmt.Sprintf("Capture reloaded: %d new, %d updated", res.Added, res.Updated), inspect.SeverityInfo)
	}
}
