package command

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/logging/events"
)

// Request encapsulates a unit of background work.
type Request struct {
	ID    string
	Label string
	Run   func(context.Context) error
	// Done turns the result into the message delivered to the model.
	Done func(error) tea.Msg
}

// Bus runs requests off the update loop.
type Bus struct {
	ctx context.Context
}

// New initialises a command bus whose requests observe ctx.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		err := req.Run(b.ctx)
		events.Command.Result(req.ID, req.Label, err)
		if req.Done == nil {
			return nil
		}
		return req.Done(err)
	}
}
