// Package ui contains the Bubble Tea program for browsing and inspecting
// captured flows. Model focuses on message orchestration; helpers own
// navigation, prompts, rendering and background work.
//
// Message flow:
//   - Bubble Tea invokes Model.Update, which routes each tea.Msg through a
//     typed handler registry.
//   - Key presses go to the open prompt first. Otherwise the key map resolves
//     them to an action; screen-level actions (help, event log, quit, list
//     movement) are handled here and everything else is passed to the
//     inspect.Dispatcher, whose Outcome is applied by applyOutcome.
//   - Outcomes may open a prompt (path form, one-key question or a filtered
//     chooser), start a Task on the command bus, or hand an external viewer to
//     tea.ExecProcess.
//
// State ownership:
//   - The flow collection, the active tab and the per-flow view settings live
//     in the inspect.Dispatcher. The list screen mirrors the collection into
//     an internal/ui/state.Level whose cursor follows the collection focus.
//   - The body viewport is re-rendered only when the focused flow, the tab or
//     the flow contents change.
//
// Backend interactions:
//   - A backend.Watcher polls the capture file; each change arrives as a
//     backendEventMsg and is merged into the collection by the data
//     dispatcher before the list and body are refreshed.
package ui
