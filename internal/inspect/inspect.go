// Package inspect dispatches key commands against the focused flow.
//
// A Dispatcher holds the flow collection, the active tab and the per-flow
// view settings. Every key resolves to exactly one action through the key
// map, or is reported unhandled so an outer screen can use it. Actions that
// need an answer return a Prompt; actions that call slow collaborators return
// a Task whose result is applied later by Finish.
package inspect

import (
	"context"
	"fmt"

	"github.com/atomicstack/flowview/internal/contentview"
	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/render"
	"github.com/atomicstack/flowview/internal/state"
	"github.com/atomicstack/flowview/internal/viewer"
)

// DefaultViewMode is used when Config leaves the view mode empty.
const DefaultViewMode = "auto"

// NoResponse is the body line of a response tab without a response.
const NoResponse = "No response yet."

// Config carries process-wide settings.
type Config struct {
	DefaultViewMode  string
	EditorConfigured bool
}

// Replayer re-issues a request and returns the new response.
type Replayer interface {
	Replay(ctx context.Context, req *flow.Message) (*flow.Message, error)
}

// FlowSaver writes a flow to path.
type FlowSaver interface {
	SaveFlow(path string, f *flow.Flow) error
}

// ScriptRunner runs the script at path once against f and returns the flow
// as the script left it.
type ScriptRunner interface {
	RunScript(ctx context.Context, path string, f *flow.Flow) (*flow.Flow, error)
}

// BodySaver writes body bytes to path.
type BodySaver interface {
	SaveBody(path string, content []byte) error
}

// Viewer prepares an external program showing content. The front end runs
// it; the dispatcher never waits for it.
type Viewer interface {
	Prepare(content []byte, contentType string) (*viewer.Launch, error)
}

// Exporter writes a message as text to a file or the clipboard.
type Exporter interface {
	ExportFile(path string, msg *flow.Message) error
	ExportClipboard(msg *flow.Message) error
}

// Logger receives log entries.
type Logger interface {
	Log(level logging.Level, message string)
}

// Renderer renders one message in a view mode under a line budget.
type Renderer interface {
	Render(mode string, msg *flow.Message, budget int) (string, []contentview.Line)
}

// Catalogue lists the registered view modes.
type Catalogue interface {
	Views() []contentview.View
}

// Deps are the dispatcher's collaborators. Flows and Renderer are required;
// the rest fall back to defaults or report that the action is unavailable.
type Deps struct {
	Flows     *flow.Collection
	Views     state.ViewStore
	Renderer  Renderer
	Catalogue Catalogue
	Keys      *keymap.Map
	Logger    Logger

	Replayer  Replayer
	FlowSaver FlowSaver
	Scripts   ScriptRunner
	BodySaver BodySaver
	Viewer    Viewer
	Exporter  Exporter
}

// Dispatcher is the flow view state machine.
type Dispatcher struct {
	cfg   Config
	deps  Deps
	flows *flow.Collection
	views state.ViewStore
	keys  *keymap.Map
	tab   state.Tab
}

// New builds a dispatcher over deps.Flows.
func New(cfg Config, deps Deps) (*Dispatcher, error) {
	if deps.Flows == nil {
		return nil, fmt.Errorf("inspect: flow collection is required")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("inspect: renderer is required")
	}
	if cfg.DefaultViewMode == "" {
		cfg.DefaultViewMode = DefaultViewMode
	}
	if deps.Views == nil {
		deps.Views = state.NewViewStore()
	}
	if deps.Catalogue == nil {
		deps.Catalogue = contentview.Default()
	}
	if deps.Keys == nil {
		deps.Keys = keymap.Default()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Sink{}
	}
	return &Dispatcher{
		cfg:   cfg,
		deps:  deps,
		flows: deps.Flows,
		views: deps.Views,
		keys:  deps.Keys,
	}, nil
}

// Flows returns the collection the dispatcher works on.
func (d *Dispatcher) Flows() *flow.Collection {
	return d.flows
}

// Keys returns the active key map.
func (d *Dispatcher) Keys() *keymap.Map {
	return d.keys
}

// Flow is the focused flow, or nil when the collection is empty.
func (d *Dispatcher) Flow() *flow.Flow {
	return d.flows.Focus()
}

// Tab is the active tab.
func (d *Dispatcher) Tab() state.Tab {
	return d.tab
}

// SetTab switches the active tab. Invalid tabs are ignored.
func (d *Dispatcher) SetTab(tab state.Tab) {
	if tab.Valid() {
		d.tab = tab
	}
}

// Open focuses f for viewing. The active tab carries over between flows.
func (d *Dispatcher) Open(f *flow.Flow) bool {
	return d.flows.SetFocus(f)
}

// TabLabels names the three tabs for f.
func TabLabels(f *flow.Flow) [state.TabCount]string {
	labels := [state.TabCount]string{"Request", "Response", "Detail"}
	if f == nil || !f.Intercepted {
		return labels
	}
	if f.Response == nil {
		labels[state.TabRequest] = "Request intercepted"
	} else {
		labels[state.TabResponse] = "Response intercepted"
	}
	return labels
}

// ResolveViewMode returns the stored view mode for the flow's tab or the
// configured default. It never writes.
func (d *Dispatcher) ResolveViewMode(f *flow.Flow, tab state.Tab) string {
	if f != nil {
		if mode, ok := d.views.ViewMode(f.ID, tab); ok && mode != "" {
			return mode
		}
	}
	return d.cfg.DefaultViewMode
}

// SetViewMode stores the view mode for the flow's tab. The returned outcome
// marks the flow stale.
func (d *Dispatcher) SetViewMode(f *flow.Flow, tab state.Tab, mode string) Outcome {
	if f == nil || !tab.HasMessage() {
		return handled()
	}
	d.views.SetViewMode(f.ID, tab, mode)
	traceViewMode(f, tab, mode)
	return stale()
}

// Budget is the line budget for the flow's tab.
func (d *Dispatcher) Budget(f *flow.Flow, tab state.Tab) int {
	if f != nil && d.views.FullContents(f.ID, tab) {
		return render.Unlimited
	}
	return render.DefaultBudget
}

// Render renders the body of the flow's tab. The detail tab has no body.
func (d *Dispatcher) Render(f *flow.Flow, tab state.Tab) (string, []contentview.Line) {
	if f == nil || !tab.HasMessage() {
		return "", nil
	}
	msg := f.Message(roleFor(tab))
	if msg == nil {
		return "", []contentview.Line{{{Style: contentview.StyleHighlight, Text: NoResponse}}}
	}
	return d.deps.Renderer.Render(d.ResolveViewMode(f, tab), msg, d.Budget(f, tab))
}

func roleFor(tab state.Tab) flow.Role {
	if tab == state.TabResponse {
		return flow.RoleResponse
	}
	return flow.RoleRequest
}
