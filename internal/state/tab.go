package state

// Tab is the active pane of the flow view.
type Tab int

const (
	TabRequest Tab = iota
	TabResponse
	TabDetail
)

// TabCount is the number of tabs a flow view cycles through.
const TabCount = 3

func (t Tab) String() string {
	switch t {
	case TabRequest:
		return "request"
	case TabResponse:
		return "response"
	case TabDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the three flow view tabs.
func (t Tab) Valid() bool {
	return t >= TabRequest && t <= TabDetail
}

// Next cycles forward, wrapping after the detail tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % TabCount)
}

// Prev cycles backward, wrapping before the request tab.
func (t Tab) Prev() Tab {
	return Tab((int(t) + TabCount - 1) % TabCount)
}

// HasMessage reports whether the tab shows a request or response body.
func (t Tab) HasMessage() bool {
	return t == TabRequest || t == TabResponse
}
