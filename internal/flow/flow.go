package flow

import (
	"time"

	"github.com/google/uuid"
)

// Flow pairs one request with an optional response and tracks its lifecycle.
type Flow struct {
	ID       string
	Request  *Message
	Response *Message

	// Intercepted flows are held by the proxy until resumed.
	Intercepted bool
	// Killable flows can still be aborted by the proxy.
	Killable bool
	// Error describes a connection-level failure, e.g. a killed flow.
	Error string

	ClientAddr string
	ServerAddr string
	Created    time.Time

	backup *snapshot
}

type snapshot struct {
	request  *Message
	response *Message
}

// New creates a flow with a fresh identity around req and resp.
func New(req, resp *Message) *Flow {
	return &Flow{
		ID:       uuid.NewString(),
		Request:  req,
		Response: resp,
		Created:  time.Now(),
	}
}

// Backup snapshots the current messages unless a snapshot is already held,
// so one edit session keeps the state from before its first change.
func (f *Flow) Backup() {
	if f.backup != nil {
		return
	}
	f.backup = &snapshot{request: f.Request.Clone(), response: f.Response.Clone()}
}

// HasBackup reports whether an edit session is open.
func (f *Flow) HasBackup() bool {
	return f.backup != nil
}

// Modified reports whether the messages differ from the held snapshot.
func (f *Flow) Modified() bool {
	if f.backup == nil {
		return false
	}
	return !f.backup.request.Equal(f.Request) || !f.backup.response.Equal(f.Response)
}

// Revert restores the snapshot and closes the edit session.
func (f *Flow) Revert() {
	if f.backup == nil {
		return
	}
	f.Request = f.backup.request
	f.Response = f.backup.response
	f.backup = nil
}

// Resume releases an intercepted flow.
func (f *Flow) Resume() bool {
	if !f.Intercepted {
		return false
	}
	f.Intercepted = false
	return true
}

// Kill aborts the flow. It is a no-op for flows that are not killable.
func (f *Flow) Kill() bool {
	if !f.Killable {
		return false
	}
	f.Killable = false
	f.Intercepted = false
	f.Error = "Connection killed"
	return true
}

// Copy returns a detached duplicate with a fresh identity. The copy is not
// held by the proxy, so it is neither intercepted nor killable.
func (f *Flow) Copy() *Flow {
	return &Flow{
		ID:         uuid.NewString(),
		Request:    f.Request.Clone(),
		Response:   f.Response.Clone(),
		Error:      f.Error,
		ClientAddr: f.ClientAddr,
		ServerAddr: f.ServerAddr,
		Created:    time.Now(),
	}
}

// Message returns the request or response selected by role.
func (f *Flow) Message(role Role) *Message {
	if role == RoleResponse {
		return f.Response
	}
	return f.Request
}

// Snapshot returns a deep copy that keeps the identity and flags of f. It is
// what background work such as saving or replaying reads from, so the live
// flow can keep changing meanwhile.
func (f *Flow) Snapshot() *Flow {
	return &Flow{
		ID:          f.ID,
		Request:     f.Request.Clone(),
		Response:    f.Response.Clone(),
		Intercepted: f.Intercepted,
		Killable:    f.Killable,
		Error:       f.Error,
		ClientAddr:  f.ClientAddr,
		ServerAddr:  f.ServerAddr,
		Created:     f.Created,
	}
}

// Equal reports whether f and other carry the same messages and state.
func (f *Flow) Equal(other *Flow) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.ID == other.ID &&
		f.Intercepted == other.Intercepted &&
		f.Killable == other.Killable &&
		f.Error == other.Error &&
		f.Request.Equal(other.Request) &&
		f.Response.Equal(other.Response)
}
