package inspect

import (
	"context"
	"fmt"

	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/logging/events"
	"github.com/atomicstack/flowview/internal/state"
)

// Notices shown by the dispatcher.
const (
	NoticeWrongTab     = "Tab to the request or response"
	NoticeNoMoreFlows  = "No more flows"
	NoticeDuplicated   = "Duplicated."
	NoticeReverted     = "Reverted."
	NoticeNotModified  = "Flow not modified."
	NoticeLoadingFull  = "Loading all body data..."
	NoticeNoEditor     = "Error! Set $EDITOR or $PAGER."
	NoticeDecodeFailed = "Could not decode - invalid data?"
	NoticeFlowGone     = "Flow no longer available"
)

// EncodingChoices are offered when encoding an identity body.
var EncodingChoices = []Choice{
	{Key: "z", Label: "gzip", Value: "gzip"},
	{Key: "d", Label: "deflate", Value: "deflate"},
	{Key: "b", Label: "brotli", Value: "br"},
}

// Handle resolves key through the key map and performs its action. Keys
// without a binding, and screen-level actions, come back unhandled.
func (d *Dispatcher) Handle(key string) Outcome {
	action, ok := d.keys.Lookup(key)
	if !ok {
		return Outcome{}
	}
	return d.Do(action)
}

// Do performs action against the focused flow and active tab.
func (d *Dispatcher) Do(action keymap.Action) Outcome {
	out := d.do(action)
	out.Action = action
	return out
}

func (d *Dispatcher) do(action keymap.Action) Outcome {
	switch action {
	case keymap.ScrollUp, keymap.ScrollDown, keymap.PageUp, keymap.PageDown:
		return Outcome{Handled: true, Scroll: action}
	case keymap.Open, keymap.Back, keymap.Help, keymap.EventLog, keymap.Quit:
		return Outcome{}
	case keymap.AcceptAll:
		return d.acceptAll()
	}

	f := d.Flow()
	if f == nil {
		return Outcome{Handled: true, Nav: NavList}
	}
	if action.NeedsMessage() {
		msg := d.message(f)
		if msg == nil {
			return Outcome{Handled: true, Notice: NoticeWrongTab}
		}
		return d.doBody(action, f, msg)
	}

	switch action {
	case keymap.AcceptOne:
		return d.acceptOne(f)
	case keymap.Delete:
		return d.delete(f)
	case keymap.Duplicate:
		return d.duplicate(f)
	case keymap.Prev:
		return d.step(f, -1)
	case keymap.Next:
		return d.step(f, 1)
	case keymap.Replay:
		return d.replay(f)
	case keymap.Revert:
		return d.revert(f)
	case keymap.SaveFlow:
		return d.ask(f, PromptPath, action, "Save this flow", nil, "")
	case keymap.RunScript:
		return d.ask(f, PromptPath, action, "Send flow to script", nil, "")
	case keymap.NextTab:
		d.tab = d.tab.Next()
		events.UI.Tab(f.ID, d.tab.String())
		return handled()
	case keymap.PrevTab:
		d.tab = d.tab.Prev()
		events.UI.Tab(f.ID, d.tab.String())
		return handled()
	}
	return Outcome{}
}

func (d *Dispatcher) doBody(action keymap.Action, f *flow.Flow, msg *flow.Message) Outcome {
	switch action {
	case keymap.SaveBody:
		if _, ok := msg.RawContent(); !ok {
			return notice(fmt.Sprintf("%s has no content.", roleTitle(msg)))
		}
		return d.ask(f, PromptPath, action, fmt.Sprintf("Save %s content to", msg.Role()), nil, "")
	case keymap.LoadFull:
		d.views.SetFullContents(f.ID, d.tab, true)
		events.Flow.LoadFull(f.ID, d.tab.String())
		out := stale()
		out.Notice = NoticeLoadingFull
		return out
	case keymap.ChangeMode:
		return d.ask(f, PromptChooser, action, "Display mode", d.modeChoices(), d.ResolveViewMode(f, d.tab))
	case keymap.DeleteBody:
		f.Backup()
		msg.ClearContent()
		events.Flow.ClearBody(f.ID, d.tab.String())
		return stale()
	case keymap.ViewExternal:
		return d.viewExternal(msg)
	case keymap.EncodeDecode:
		return d.encodeDecode(f, msg)
	case keymap.ExportFile:
		return d.ask(f, PromptPath, action, fmt.Sprintf("Export %s to", msg.Role()), nil, "")
	case keymap.ExportClipboard:
		return d.exportClipboard(msg)
	}
	return Outcome{}
}

// message is the request or response shown in the active tab.
func (d *Dispatcher) message(f *flow.Flow) *flow.Message {
	if !d.tab.HasMessage() {
		return nil
	}
	return f.Message(roleFor(d.tab))
}

func (d *Dispatcher) acceptOne(f *flow.Flow) Outcome {
	if !f.Resume() {
		return handled()
	}
	events.Flow.Accept(f.ID)
	return stale()
}

func (d *Dispatcher) acceptAll() Outcome {
	count := 0
	for _, f := range d.flows.Intercepted() {
		if f.Resume() {
			count++
		}
	}
	events.Flow.AcceptAll(count)
	if count == 0 {
		return handled()
	}
	return stale()
}

func (d *Dispatcher) delete(f *flow.Flow) Outcome {
	killed := f.Kill()
	d.flows.Remove(f)
	d.views.Evict(f.ID)
	events.Flow.Delete(f.ID, killed)
	out := stale()
	if next := d.flows.Focus(); next != nil {
		events.Flow.Focus(next.ID, d.flows.FocusIndex())
		out.Nav = NavFlow
	} else {
		out.Nav = NavList
	}
	return out
}

func (d *Dispatcher) duplicate(f *flow.Flow) Outcome {
	cp := f.Copy()
	d.flows.Insert(d.flows.Index(f), cp)
	d.flows.SetFocus(cp)
	events.Flow.Duplicate(f.ID, cp.ID)
	out := stale()
	out.Notice = NoticeDuplicated
	out.Nav = NavFlow
	return out
}

func (d *Dispatcher) step(f *flow.Flow, delta int) Outcome {
	idx := d.flows.Index(f) + delta
	if !d.flows.Inbounds(idx) {
		return notice(NoticeNoMoreFlows)
	}
	d.flows.SetFocusIndex(idx)
	events.Flow.Focus(d.flows.At(idx).ID, idx)
	return Outcome{Handled: true, Nav: NavFlow}
}

func (d *Dispatcher) revert(f *flow.Flow) Outcome {
	modified := f.Modified()
	events.Flow.Revert(f.ID, modified)
	if !modified {
		return notice(NoticeNotModified)
	}
	f.Revert()
	out := stale()
	out.Notice = NoticeReverted
	return out
}

func (d *Dispatcher) replay(f *flow.Flow) Outcome {
	if d.deps.Replayer == nil {
		d.replayFailed(f, fmt.Errorf("no replay client configured"))
		return stale()
	}
	req := f.Request.Clone()
	var resp *flow.Message
	task := &Task{
		ID:    string(keymap.Replay),
		Label: f.Request.URL(),
		Run: func(ctx context.Context) error {
			var err error
			resp, err = d.deps.Replayer.Replay(ctx, req)
			return err
		},
	}
	task.done = func(err error) Outcome {
		if err != nil {
			d.replayFailed(f, err)
			return stale()
		}
		// a reload may have swapped the flow object while the request ran
		live := d.flows.Get(f.ID)
		if live == nil {
			return notice(NoticeFlowGone)
		}
		events.Flow.Replay(live.ID, nil)
		live.Backup()
		live.Response = resp
		live.Error = ""
		return stale()
	}
	out := handled()
	out.Task = task
	return out
}

func (d *Dispatcher) replayFailed(f *flow.Flow, err error) {
	events.Flow.Replay(f.ID, err)
	d.deps.Logger.Log(logging.LevelWarn, fmt.Sprintf("Replay error: %s", err))
}

func (d *Dispatcher) viewExternal(msg *flow.Message) Outcome {
	raw, ok := msg.RawContent()
	if !ok || len(raw) == 0 {
		return handled()
	}
	if !d.cfg.EditorConfigured || d.deps.Viewer == nil {
		return failure(NoticeNoEditor)
	}
	content, _ := msg.Content()
	launch, err := d.deps.Viewer.Prepare(content, msg.ContentType())
	if err != nil {
		logging.Error(err)
		return failure(err.Error())
	}
	out := handled()
	out.Launch = launch
	return out
}

func (d *Dispatcher) encodeDecode(f *flow.Flow, msg *flow.Message) Outcome {
	f.Backup()
	if msg.ContentEncoding() == flow.IdentityEncoding {
		out := d.ask(f, PromptOneKey, keymap.EncodeDecode, "Select encoding", EncodingChoices, "")
		out.Stale = true
		return out
	}
	err := msg.Decode()
	events.Flow.Decode(f.ID, d.tab.String(), err)
	out := stale()
	if err != nil {
		out.Notice = NoticeDecodeFailed
		out.Severity = SeverityWarn
	}
	return out
}

func (d *Dispatcher) exportClipboard(msg *flow.Message) Outcome {
	if d.deps.Exporter == nil {
		return failure("Clipboard export is not available")
	}
	snap := msg.Clone()
	role := msg.Role()
	task := &Task{
		ID:    string(keymap.ExportClipboard),
		Label: role.String(),
		Run: func(context.Context) error {
			return d.deps.Exporter.ExportClipboard(snap)
		},
	}
	task.done = func(err error) Outcome {
		if err != nil {
			return failure(fmt.Sprintf("Clipboard export failed: %v", err))
		}
		return notice(fmt.Sprintf("Copied %s to clipboard.", role))
	}
	out := handled()
	out.Task = task
	return out
}

func (d *Dispatcher) modeChoices() []Choice {
	views := d.deps.Catalogue.Views()
	choices := make([]Choice, 0, len(views))
	for _, v := range views {
		choices = append(choices, Choice{Key: v.Key(), Label: v.Name(), Value: v.Name()})
	}
	return choices
}

func (d *Dispatcher) ask(f *flow.Flow, kind PromptKind, action keymap.Action, title string, choices []Choice, selected string) Outcome {
	events.Flow.Prompt(kind.String(), f.ID)
	return Outcome{
		Handled: true,
		Prompt: &Prompt{
			Kind:     kind,
			Action:   action,
			Title:    title,
			Choices:  choices,
			Selected: selected,
			flowID:   f.ID,
			tab:      d.tab,
		},
	}
}

func roleTitle(msg *flow.Message) string {
	if msg.IsRequest() {
		return "Request"
	}
	return "Response"
}

func traceViewMode(f *flow.Flow, tab state.Tab, mode string) {
	events.Flow.ViewMode(f.ID, tab.String(), mode)
}
