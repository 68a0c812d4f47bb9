package flow

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Role tags a message as the request or the response half of a flow.
type Role int

const (
	RoleRequest Role = iota
	RoleResponse
)

func (r Role) String() string {
	switch r {
	case RoleRequest:
		return "request"
	case RoleResponse:
		return "response"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// IdentityEncoding is the content-encoding of an unencoded body.
const IdentityEncoding = "identity"

// Message is the uniform view over a request or a response. Request-only and
// response-only attributes sit side by side; Role says which ones apply.
type Message struct {
	role    Role
	raw     []byte
	hasRaw  bool
	headers Headers

	HTTPVersion string
	Timestamp   time.Time

	// request attributes
	Method string
	Scheme string
	Host   string
	Port   int
	Path   string

	// response attributes
	StatusCode int
	Reason     string
}

// NewRequest builds a request message carrying the supplied body.
func NewRequest(method, url string, headers Headers, body []byte) *Message {
	m := &Message{role: RoleRequest, Method: method, HTTPVersion: "HTTP/1.1", headers: headers.Clone()}
	m.setURL(url)
	if body != nil {
		m.SetRawContent(body)
	}
	return m
}

// NewResponse builds a response message carrying the supplied body.
func NewResponse(status int, reason string, headers Headers, body []byte) *Message {
	m := &Message{role: RoleResponse, StatusCode: status, Reason: reason, HTTPVersion: "HTTP/1.1", headers: headers.Clone()}
	if body != nil {
		m.SetRawContent(body)
	}
	return m
}

func (m *Message) setURL(url string) {
	rest := url
	if idx := strings.Index(rest, "://"); idx >= 0 {
		m.Scheme = rest[:idx]
		rest = rest[idx+3:]
	}
	hostPart := rest
	m.Path = "/"
	if idx := strings.Index(rest, "/"); idx >= 0 {
		hostPart = rest[:idx]
		m.Path = rest[idx:]
	}
	m.Host = hostPart
	if idx := strings.LastIndex(hostPart, ":"); idx >= 0 {
		var port int
		if _, err := fmt.Sscanf(hostPart[idx+1:], "%d", &port); err == nil {
			m.Host = hostPart[:idx]
			m.Port = port
		}
	}
	if m.Port == 0 {
		switch m.Scheme {
		case "https":
			m.Port = 443
		case "http":
			m.Port = 80
		}
	}
}

// Role reports which half of the flow this message is.
func (m *Message) Role() Role {
	return m.role
}

// IsRequest reports whether the message is a request.
func (m *Message) IsRequest() bool {
	return m.role == RoleRequest
}

// URL reassembles the request target. Responses return an empty string.
func (m *Message) URL() string {
	if m.role != RoleRequest {
		return ""
	}
	host := m.Host
	defaultPort := (m.Scheme == "https" && m.Port == 443) || (m.Scheme == "http" && m.Port == 80)
	if m.Port != 0 && !defaultPort {
		host = fmt.Sprintf("%s:%d", host, m.Port)
	}
	scheme := m.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + host + m.Path
}

// SecondaryID is the extra identity mixed into render fingerprints: the
// request path for requests, empty for responses.
func (m *Message) SecondaryID() string {
	if m.role == RoleRequest {
		return m.Path
	}
	return ""
}

// RawContent returns the body bytes as stored on the wire. The boolean is
// false when the content is missing altogether.
func (m *Message) RawContent() ([]byte, bool) {
	if !m.hasRaw {
		return nil, false
	}
	return m.raw, true
}

// SetRawContent stores a copy of body without re-encoding it.
func (m *Message) SetRawContent(body []byte) {
	m.raw = append([]byte{}, body...)
	m.hasRaw = true
}

// ClearContent drops the body; it renders as missing afterwards.
func (m *Message) ClearContent() {
	m.raw = nil
	m.hasRaw = false
}

// Headers exposes the header list for reading and editing.
func (m *Message) Headers() *Headers {
	return &m.headers
}

// ContentType returns the declared content type, if any.
func (m *Message) ContentType() string {
	v, _ := m.headers.Get("content-type")
	return v
}

// ContentEncoding returns the declared content-encoding, defaulting to identity.
func (m *Message) ContentEncoding() string {
	v, ok := m.headers.Get("content-encoding")
	v = strings.ToLower(strings.TrimSpace(v))
	if !ok || v == "" {
		return IdentityEncoding
	}
	return v
}

// Content returns the decoded body. Bodies that fail to decode are returned
// raw together with the decode error.
func (m *Message) Content() ([]byte, error) {
	if !m.hasRaw {
		return nil, nil
	}
	decoded, err := decodeBytes(m.ContentEncoding(), m.raw)
	if err != nil {
		return m.raw, err
	}
	return decoded, nil
}

// Clone returns a deep copy that shares no mutable state with m.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	dup := *m
	dup.headers = m.headers.Clone()
	if m.hasRaw {
		dup.raw = append([]byte{}, m.raw...)
	}
	return &dup
}

// Equal reports whether two messages carry identical state.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.hasRaw != other.hasRaw || !bytes.Equal(m.raw, other.raw) {
		return false
	}
	if !m.headers.Equal(other.headers) {
		return false
	}
	return m.role == other.role &&
		m.HTTPVersion == other.HTTPVersion &&
		m.Timestamp.Equal(other.Timestamp) &&
		m.Method == other.Method &&
		m.Scheme == other.Scheme &&
		m.Host == other.Host &&
		m.Port == other.Port &&
		m.Path == other.Path &&
		m.StatusCode == other.StatusCode &&
		m.Reason == other.Reason
}
