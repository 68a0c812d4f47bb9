package events

import "github.com/atomicstack/flowview/internal/logging"

type FlowTracer struct{}

type PromptReason string

const (
	ReasonEscape PromptReason = "escape"
	ReasonEmpty  PromptReason = "empty"
)

var Flow = FlowTracer{}

func (FlowTracer) Accept(id string) {
	logging.Trace("flow.accept", map[string]interface{}{"flow": id})
}

func (FlowTracer) AcceptAll(count int) {
	logging.Trace("flow.accept-all", map[string]interface{}{"count": count})
}

func (FlowTracer) Delete(id string, killed bool) {
	logging.Trace("flow.delete", map[string]interface{}{"flow": id, "killed": killed})
}

func (FlowTracer) Duplicate(id, copyID string) {
	logging.Trace("flow.duplicate", map[string]interface{}{"flow": id, "copy": copyID})
}

func (FlowTracer) Focus(id string, index int) {
	logging.Trace("flow.focus", map[string]interface{}{"flow": id, "index": index})
}

func (FlowTracer) Replay(id string, err error) {
	payload := map[string]interface{}{"flow": id}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("flow.replay", payload)
}

func (FlowTracer) Revert(id string, modified bool) {
	logging.Trace("flow.revert", map[string]interface{}{"flow": id, "modified": modified})
}

func (FlowTracer) Encode(id, tab, encoding string) {
	logging.Trace("flow.encode", map[string]interface{}{"flow": id, "tab": tab, "encoding": encoding})
}

func (FlowTracer) Decode(id, tab string, err error) {
	payload := map[string]interface{}{"flow": id, "tab": tab}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("flow.decode", payload)
}

func (FlowTracer) ClearBody(id, tab string) {
	logging.Trace("flow.clear-body", map[string]interface{}{"flow": id, "tab": tab})
}

func (FlowTracer) ViewMode(id, tab, mode string) {
	logging.Trace("flow.view-mode", map[string]interface{}{"flow": id, "tab": tab, "mode": mode})
}

func (FlowTracer) LoadFull(id, tab string) {
	logging.Trace("flow.load-full", map[string]interface{}{"flow": id, "tab": tab})
}

func (FlowTracer) Prompt(kind, id string) {
	logging.Trace("flow.prompt", map[string]interface{}{"kind": kind, "flow": id})
}

func (FlowTracer) CancelPrompt(kind string, reason PromptReason) {
	logging.Trace("flow.prompt.cancel", map[string]interface{}{"kind": kind, "reason": string(reason)})
}

func (FlowTracer) Merge(added, updated int) {
	logging.Trace("flow.merge", map[string]interface{}{"added": added, "updated": updated})
}
