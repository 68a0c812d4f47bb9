package events

import "github.com/atomicstack/flowview/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Screen(screen, flowID string) {
	logging.Trace("ui.screen", map[string]interface{}{"screen": screen, "flow": flowID})
}

func (UITracer) Cursor(levelID string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"level": levelID, "cursor": cursor})
}

func (UITracer) Tab(flowID, tab string) {
	logging.Trace("ui.tab", map[string]interface{}{"flow": flowID, "tab": tab})
}

func (UITracer) Key(key, action string, handled bool) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "action": action, "handled": handled})
}

func (UITracer) Choose(levelID, itemID string) {
	logging.Trace("ui.choose", map[string]interface{}{"level": levelID, "item": itemID})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared(levelID string) {
	logging.Trace("filter.clear", map[string]interface{}{"level": levelID})
}

func (FilterTracer) WordBackspace(levelID, filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Append(levelID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Backspace(levelID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label string, err error) {
	payload := map[string]interface{}{"id": id, "label": label}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}

func (CommandTracer) Launch(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.launch", payload)
}
