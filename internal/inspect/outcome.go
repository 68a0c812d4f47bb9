package inspect

import (
	"context"

	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/state"
	"github.com/atomicstack/flowview/internal/viewer"
)

// Nav asks the front end to change screens.
type Nav int

const (
	NavNone Nav = iota
	// NavFlow shows the collection's focused flow.
	NavFlow
	// NavList returns to the flow list.
	NavList
)

// Severity grades a status notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// Outcome reports what an action did.
type Outcome struct {
	Action  keymap.Action
	Handled bool
	// Stale means the focused flow must be rendered again.
	Stale    bool
	Notice   string
	Severity Severity
	Prompt   *Prompt
	Task     *Task
	Nav      Nav
	// Scroll is set for scroll actions the body view should apply.
	Scroll keymap.Action
	// Launch is an external viewer for the front end to run.
	Launch *viewer.Launch
}

func handled() Outcome {
	return Outcome{Handled: true}
}

func stale() Outcome {
	return Outcome{Handled: true, Stale: true}
}

func notice(text string) Outcome {
	return Outcome{Handled: true, Notice: text}
}

func failure(text string) Outcome {
	return Outcome{Handled: true, Notice: text, Severity: SeverityError}
}

// PromptKind selects how the front end asks for an answer.
type PromptKind int

const (
	// PromptPath asks for a file path.
	PromptPath PromptKind = iota
	// PromptOneKey waits for one of the choice keys.
	PromptOneKey
	// PromptChooser lists the choices with one preselected.
	PromptChooser
)

func (k PromptKind) String() string {
	switch k {
	case PromptPath:
		return "path"
	case PromptOneKey:
		return "onekey"
	case PromptChooser:
		return "chooser"
	default:
		return "unknown"
	}
}

// Choice is one option of a one-key prompt or chooser.
type Choice struct {
	Key   string
	Label string
	Value string
}

// Prompt is a pending question. Answer it with Dispatcher.Answer.
type Prompt struct {
	Kind     PromptKind
	Action   keymap.Action
	Title    string
	Choices  []Choice
	Selected string

	flowID string
	tab    state.Tab
}

// FlowID names the flow the prompt was raised for.
func (p *Prompt) FlowID() string {
	return p.flowID
}

// ChoiceForKey finds the choice bound to key.
func (p *Prompt) ChoiceForKey(key string) (Choice, bool) {
	for _, c := range p.Choices {
		if c.Key == key {
			return c, true
		}
	}
	return Choice{}, false
}

// Task is collaborator work that may block. Run executes off the update
// loop; the result goes back through Dispatcher.Finish.
type Task struct {
	ID    string
	Label string
	Run   func(ctx context.Context) error

	done func(err error) Outcome
}
