package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/backend"
	"github.com/atomicstack/flowview/internal/data/dispatcher"
	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/state"
	"github.com/atomicstack/flowview/internal/theme"
	"github.com/atomicstack/flowview/internal/ui/command"
	uistate "github.com/atomicstack/flowview/internal/ui/state"
)

type level = uistate.Level

// Screen is the page the model is showing.
type Screen int

const (
	ScreenList Screen = iota
	ScreenFlow
	ScreenHelp
	ScreenEventLog
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenFlow:
		return "flow"
	case ScreenHelp:
		return "help"
	case ScreenEventLog:
		return "eventlog"
	default:
		return "unknown"
	}
}

const (
	defaultWidth  = 80
	defaultHeight = 24
	noticeTTL     = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Inspector  *inspect.Dispatcher
	Watcher    *backend.Watcher
	Context    context.Context
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

// Model implements the Bubble Tea model for the flow inspector.
type Model struct {
	screen   Screen
	previous Screen

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	notice         string
	noticeSeverity inspect.Severity
	noticeExpire   time.Time

	list  *level
	body  viewport.Model
	pager viewport.Model

	bodyStale  bool
	bodyFlowID string
	bodyTab    state.Tab
	bodyTitle  string

	prompt  *promptState
	pending map[string]string
	seq     int

	handlers map[reflect.Type]msgHandler

	inspector *inspect.Dispatcher
	merger    *dispatcher.Dispatcher
	backend   *backend.Watcher
	bus       *command.Bus
	quitting  bool
}

// NewModel initialises the UI over the inspector's flow collection.
func NewModel(opts Options) *Model {
	m := &Model{
		screen:     ScreenList,
		previous:   ScreenList,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		inspector:  opts.Inspector,
		merger:     dispatcher.New(opts.Inspector.Flows()),
		backend:    opts.Watcher,
		bus:        command.New(opts.Context),
		pending:    make(map[string]string),
		bodyStale:  true,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.list = uistate.NewLevel("flows", "Flows", nil)
	m.body = viewport.New(m.width, m.bodyHeight())
	m.pager = viewport.New(m.width, m.pagerHeight())
	m.refreshList()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Screen reports the page being shown.
func (m *Model) Screen() Screen {
	return m.screen
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(taskDoneMsg{}):       m.handleTaskDoneMsg,
		reflect.TypeOf(viewerDoneMsg{}):     m.handleViewerDoneMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeViewports()
	return nil
}

func (m *Model) resizeViewports() {
	m.body.Width = m.width
	m.body.Height = m.bodyHeight()
	m.pager.Width = m.width
	m.pager.Height = m.pagerHeight()
	m.syncListViewport()
}

func (m *Model) setNotice(text string, severity inspect.Severity) {
	m.notice = text
	m.noticeSeverity = severity
	m.noticeExpire = time.Now().Add(noticeTTL)
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeExpire = time.Time{}
}

func (m *Model) currentNotice() string {
	if m.notice != "" && !m.noticeExpire.IsZero() && time.Now().After(m.noticeExpire) {
		m.clearNotice()
	}
	return m.notice
}
