package ui

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/logging/events"
	"github.com/atomicstack/flowview/internal/ui/command"
	"github.com/atomicstack/flowview/internal/viewer"
)

type taskDoneMsg struct {
	id   string
	task *inspect.Task
	err  error
}

type viewerDoneMsg struct {
	path string
	err  error
}

// applyOutcome carries an inspector result over to the screen.
func (m *Model) applyOutcome(out inspect.Outcome) tea.Cmd {
	if out.Notice != "" {
		m.setNotice(out.Notice, out.Severity)
	}
	if out.Scroll != "" && m.screen == ScreenFlow {
		m.refreshBody()
		scrollViewport(&m.body, out.Scroll)
	}
	switch out.Nav {
	case inspect.NavFlow:
		if m.screen == ScreenFlow {
			m.bodyStale = true
		}
		m.syncListViewport()
	case inspect.NavList:
		m.showList()
	}
	if out.Stale {
		m.bodyStale = true
		m.refreshList()
	}
	if m.screen == ScreenFlow && m.inspector.Flow() == nil {
		m.showList()
	}
	if out.Prompt != nil {
		m.openPrompt(out.Prompt)
	}
	var cmds []tea.Cmd
	if out.Task != nil {
		cmds = append(cmds, m.startTask(out.Task))
	}
	if out.Launch != nil {
		cmds = append(cmds, m.launchViewer(out.Launch))
	}
	return tea.Batch(cmds...)
}

func (m *Model) startTask(task *inspect.Task) tea.Cmd {
	m.seq++
	id := fmt.Sprintf("%s#%d", task.ID, m.seq)
	m.pending[id] = task.Label
	return m.bus.Execute(command.Request{
		ID:    task.ID,
		Label: task.Label,
		Run:   task.Run,
		Done: func(err error) tea.Msg {
			return taskDoneMsg{id: id, task: task, err: err}
		},
	})
}

func (m *Model) handleTaskDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(taskDoneMsg)
	if !ok {
		return nil
	}
	delete(m.pending, done.id)
	if done.err != nil {
		events.Action.Error(done.err)
	} else {
		events.Action.Success(done.task.Label)
	}
	return m.applyOutcome(m.inspector.Finish(done.task, done.err))
}

func (m *Model) launchViewer(launch *viewer.Launch) tea.Cmd {
	path := launch.Path
	return tea.ExecProcess(launch.Cmd, func(err error) tea.Msg {
		launch.Cleanup()
		return viewerDoneMsg{path: path, err: err}
	})
}

func (m *Model) handleViewerDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(viewerDoneMsg)
	if !ok {
		return nil
	}
	events.Command.Launch(done.path, done.err)
	if done.err != nil {
		m.setNotice(fmt.Sprintf("Viewer failed: %v", done.err), inspect.SeverityError)
	}
	return nil
}

// pendingLabel summarises running tasks for the status line.
func (m *Model) pendingLabel() string {
	if len(m.pending) == 0 {
		return ""
	}
	labels := make([]string, 0, len(m.pending))
	for _, label := range m.pending {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	if len(labels) == 1 {
		return "Working: " + labels[0]
	}
	return fmt.Sprintf("Working: %s (+%d)", labels[0], len(labels)-1)
}
