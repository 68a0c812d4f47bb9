package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/logging/events"
)

// Answer completes p with value: a path for path prompts, a choice key for
// one-key prompts, a choice value for choosers. An empty answer cancels.
func (d *Dispatcher) Answer(p *Prompt, value string) Outcome {
	if p == nil {
		return handled()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		d.Cancel(p, events.ReasonEmpty)
		return handled()
	}
	f := d.flows.Get(p.flowID)
	if f == nil {
		return notice(NoticeFlowGone)
	}

	switch p.Action {
	case keymap.ChangeMode:
		mode := strings.ToLower(value)
		if !p.hasValue(mode) {
			return failure(fmt.Sprintf("Unknown display mode %q", value))
		}
		return d.SetViewMode(f, p.tab, mode)
	case keymap.EncodeDecode:
		choice, ok := p.ChoiceForKey(value)
		if !ok {
			d.Cancel(p, events.ReasonEscape)
			return handled()
		}
		return d.encode(f, p, choice.Value)
	}

	path := expandPath(value)
	switch p.Action {
	case keymap.SaveFlow:
		return d.saveFlow(f, path)
	case keymap.RunScript:
		return d.runScript(f, path)
	case keymap.SaveBody:
		return d.saveBody(f, p, path)
	case keymap.ExportFile:
		return d.exportFile(f, p, path)
	}
	return handled()
}

// Cancel drops p without effect.
func (d *Dispatcher) Cancel(p *Prompt, reason events.PromptReason) {
	if p == nil {
		return
	}
	events.Flow.CancelPrompt(p.Kind.String(), reason)
}

// Finish applies the result of a task on the caller's goroutine.
func (d *Dispatcher) Finish(t *Task, err error) Outcome {
	if t == nil || t.done == nil {
		return handled()
	}
	out := t.done(err)
	out.Action = keymap.Action(t.ID)
	return out
}

func (p *Prompt) hasValue(value string) bool {
	for _, c := range p.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

func (d *Dispatcher) encode(f *flow.Flow, p *Prompt, enc string) Outcome {
	msg := f.Message(roleFor(p.tab))
	if msg == nil {
		return notice(NoticeWrongTab)
	}
	f.Backup()
	if err := msg.Encode(enc); err != nil {
		return failure(err.Error())
	}
	events.Flow.Encode(f.ID, p.tab.String(), enc)
	return stale()
}

func (d *Dispatcher) saveFlow(f *flow.Flow, path string) Outcome {
	if d.deps.FlowSaver == nil {
		return failure("Saving flows is not available")
	}
	snap := f.Snapshot()
	return d.background(keymap.SaveFlow, path, func(context.Context) error {
		return d.deps.FlowSaver.SaveFlow(path, snap)
	}, func(err error) Outcome {
		if err != nil {
			return failure(fmt.Sprintf("Save failed: %v", err))
		}
		return notice(fmt.Sprintf("Saved flow to %s", path))
	})
}

func (d *Dispatcher) runScript(f *flow.Flow, path string) Outcome {
	if d.deps.Scripts == nil {
		return failure("Scripts are not available")
	}
	snap := f.Snapshot()
	var result *flow.Flow
	return d.background(keymap.RunScript, path, func(ctx context.Context) error {
		var err error
		result, err = d.deps.Scripts.RunScript(ctx, path, snap)
		return err
	}, func(err error) Outcome {
		if err != nil {
			return failure(fmt.Sprintf("Script error: %v", err))
		}
		if result == nil {
			return handled()
		}
		live := d.flows.Get(f.ID)
		if live == nil {
			return notice(NoticeFlowGone)
		}
		changed := !result.Request.Equal(live.Request) || !result.Response.Equal(live.Response)
		if !changed {
			return notice(fmt.Sprintf("Ran %s", filepath.Base(path)))
		}
		live.Backup()
		live.Request = result.Request
		live.Response = result.Response
		out := stale()
		out.Notice = fmt.Sprintf("Ran %s", filepath.Base(path))
		return out
	})
}

func (d *Dispatcher) saveBody(f *flow.Flow, p *Prompt, path string) Outcome {
	if d.deps.BodySaver == nil {
		return failure("Saving bodies is not available")
	}
	msg := f.Message(roleFor(p.tab))
	if msg == nil {
		return notice(NoticeWrongTab)
	}
	content, _ := msg.Content()
	content = append([]byte(nil), content...)
	return d.background(keymap.SaveBody, path, func(context.Context) error {
		return d.deps.BodySaver.SaveBody(path, content)
	}, func(err error) Outcome {
		if err != nil {
			return failure(fmt.Sprintf("Save failed: %v", err))
		}
		return notice(fmt.Sprintf("Saved %s content to %s", msg.Role(), path))
	})
}

func (d *Dispatcher) exportFile(f *flow.Flow, p *Prompt, path string) Outcome {
	if d.deps.Exporter == nil {
		return failure("Export is not available")
	}
	msg := f.Message(roleFor(p.tab))
	if msg == nil {
		return notice(NoticeWrongTab)
	}
	snap := msg.Clone()
	return d.background(keymap.ExportFile, path, func(context.Context) error {
		return d.deps.Exporter.ExportFile(path, snap)
	}, func(err error) Outcome {
		if err != nil {
			return failure(fmt.Sprintf("Export failed: %v", err))
		}
		return notice(fmt.Sprintf("Exported %s to %s", snap.Role(), path))
	})
}

func (d *Dispatcher) background(action keymap.Action, label string, run func(context.Context) error, done func(error) Outcome) Outcome {
	out := handled()
	out.Task = &Task{ID: string(action), Label: label, Run: run, done: done}
	return out
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
