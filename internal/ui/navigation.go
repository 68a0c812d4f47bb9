package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/logging/events"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.prompt != nil {
		return m.handlePromptKey(keyMsg)
	}
	key := keyMsg.String()
	action, bound := m.inspector.Keys().Lookup(key)
	if !bound {
		events.UI.Key(key, "", false)
		return nil
	}
	switch action {
	case keymap.Quit:
		return m.quit()
	case keymap.Help:
		if m.screen == ScreenHelp {
			m.closePager()
			return nil
		}
		m.openPager(ScreenHelp)
		return nil
	case keymap.EventLog:
		if m.screen == ScreenEventLog {
			m.closePager()
			return nil
		}
		m.openPager(ScreenEventLog)
		return nil
	}
	switch m.screen {
	case ScreenHelp, ScreenEventLog:
		return m.handlePagerAction(action)
	case ScreenList:
		return m.handleListAction(key, action)
	default:
		return m.handleFlowAction(key, action)
	}
}

func (m *Model) handleListAction(key string, action keymap.Action) tea.Cmd {
	switch action {
	case keymap.Open:
		if f := m.inspector.Flow(); f != nil {
			m.showFlow()
		}
		return nil
	case keymap.Back:
		return m.quit()
	case keymap.ScrollUp:
		m.moveFocus(-1)
		return nil
	case keymap.ScrollDown:
		m.moveFocus(1)
		return nil
	case keymap.PageUp:
		m.moveFocus(-m.listRows())
		return nil
	case keymap.PageDown:
		m.moveFocus(m.listRows())
		return nil
	}
	if action.Scope() == keymap.ScopeFlow {
		events.UI.Key(key, string(action), false)
		return nil
	}
	return m.dispatch(key, action)
}

func (m *Model) handleFlowAction(key string, action keymap.Action) tea.Cmd {
	if m.inspector.Flow() == nil {
		m.showList()
		return nil
	}
	switch action {
	case keymap.Back:
		m.showList()
		return nil
	case keymap.Open:
		return nil
	}
	return m.dispatch(key, action)
}

func (m *Model) handlePagerAction(action keymap.Action) tea.Cmd {
	switch action {
	case keymap.Back:
		m.closePager()
	case keymap.ScrollUp, keymap.ScrollDown, keymap.PageUp, keymap.PageDown:
		scrollViewport(&m.pager, action)
	}
	return nil
}

func (m *Model) dispatch(key string, action keymap.Action) tea.Cmd {
	out := m.inspector.Do(action)
	events.UI.Key(key, string(action), out.Handled)
	return m.applyOutcome(out)
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok || m.prompt != nil {
		return nil
	}
	var action keymap.Action
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		action = keymap.ScrollUp
	case tea.MouseButtonWheelDown:
		action = keymap.ScrollDown
	default:
		return nil
	}
	switch m.screen {
	case ScreenList:
		if action == keymap.ScrollUp {
			m.moveFocus(-1)
		} else {
			m.moveFocus(1)
		}
	case ScreenFlow:
		m.refreshBody()
		scrollViewport(&m.body, action)
	default:
		scrollViewport(&m.pager, action)
	}
	return nil
}

func (m *Model) showFlow() {
	m.screen = ScreenFlow
	m.bodyStale = true
	id := ""
	if f := m.inspector.Flow(); f != nil {
		id = f.ID
	}
	events.UI.Screen(m.screen.String(), id)
}

func (m *Model) showList() {
	m.screen = ScreenList
	m.refreshList()
	events.UI.Screen(m.screen.String(), "")
}

func (m *Model) openPager(screen Screen) {
	if m.screen != ScreenHelp && m.screen != ScreenEventLog {
		m.previous = m.screen
	}
	m.screen = screen
	if screen == ScreenHelp {
		m.pager.SetContent(m.helpContent())
	} else {
		m.pager.SetContent(m.eventLogContent())
		m.pager.GotoBottom()
	}
	if screen == ScreenHelp {
		m.pager.GotoTop()
	}
	events.UI.Screen(screen.String(), "")
}

func (m *Model) closePager() {
	m.screen = m.previous
	if m.screen == ScreenFlow && m.inspector.Flow() == nil {
		m.screen = ScreenList
	}
	m.bodyStale = true
	events.UI.Screen(m.screen.String(), "")
}

func (m *Model) moveFocus(delta int) {
	flows := m.inspector.Flows()
	if flows.Len() == 0 || delta == 0 {
		return
	}
	idx := flows.FocusIndex() + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= flows.Len() {
		idx = flows.Len() - 1
	}
	if idx == flows.FocusIndex() {
		return
	}
	flows.SetFocusIndex(idx)
	events.Flow.Focus(flows.Focus().ID, idx)
	m.syncListViewport()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func scrollViewport(vp *viewport.Model, action keymap.Action) {
	page := vp.Height - 1
	if page < 1 {
		page = 1
	}
	switch action {
	case keymap.ScrollUp:
		vp.ScrollUp(1)
	case keymap.ScrollDown:
		vp.ScrollDown(1)
	case keymap.PageUp:
		vp.ScrollUp(page)
	case keymap.PageDown:
		vp.ScrollDown(page)
	}
}
