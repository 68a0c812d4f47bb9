package flow

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// The capture format is a YAML list of flow records. External proxy engines
// append to it; flowview reads it and writes single flows back out with W.

type captureFlow struct {
	ID          string          `yaml:"id"`
	Intercepted bool            `yaml:"intercepted,omitempty"`
	Killable    bool            `yaml:"killable,omitempty"`
	Error       string          `yaml:"error,omitempty"`
	ClientAddr  string          `yaml:"client_addr,omitempty"`
	ServerAddr  string          `yaml:"server_addr,omitempty"`
	Created     time.Time       `yaml:"created,omitempty"`
	Request     *captureMessage `yaml:"request"`
	Response    *captureMessage `yaml:"response,omitempty"`
}

type captureMessage struct {
	Method      string      `yaml:"method,omitempty"`
	URL         string      `yaml:"url,omitempty"`
	Status      int         `yaml:"status,omitempty"`
	Reason      string      `yaml:"reason,omitempty"`
	HTTPVersion string      `yaml:"http_version,omitempty"`
	Timestamp   time.Time   `yaml:"timestamp,omitempty"`
	Headers     [][2]string `yaml:"headers,omitempty"`
	Body        *string     `yaml:"body,omitempty"`
	BodyBase64  *string     `yaml:"body_base64,omitempty"`
}

// LoadFile reads every flow stored in a capture file.
func LoadFile(path string) ([]*Flow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture %q: %w", path, err)
	}
	defer f.Close()
	flows, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read capture %q: %w", path, err)
	}
	return flows, nil
}

// Decode parses a capture stream.
func Decode(r io.Reader) ([]*Flow, error) {
	var records []captureFlow
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	flows := make([]*Flow, 0, len(records))
	for i, rec := range records {
		f, err := rec.toFlow()
		if err != nil {
			return nil, fmt.Errorf("flow %d: %w", i, err)
		}
		flows = append(flows, f)
	}
	return flows, nil
}

// SaveFile writes flows to path, replacing its contents.
func SaveFile(path string, flows ...*Flow) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %q: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := Encode(f, flows...); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	return f.Close()
}

// Encode writes flows in capture format.
func Encode(w io.Writer, flows ...*Flow) error {
	records := make([]captureFlow, 0, len(flows))
	for _, f := range flows {
		records = append(records, fromFlow(f))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

func fromFlow(f *Flow) captureFlow {
	return captureFlow{
		ID:          f.ID,
		Intercepted: f.Intercepted,
		Killable:    f.Killable,
		Error:       f.Error,
		ClientAddr:  f.ClientAddr,
		ServerAddr:  f.ServerAddr,
		Created:     f.Created,
		Request:     fromMessage(f.Request),
		Response:    fromMessage(f.Response),
	}
}

func fromMessage(m *Message) *captureMessage {
	if m == nil {
		return nil
	}
	rec := &captureMessage{HTTPVersion: m.HTTPVersion, Timestamp: m.Timestamp}
	if m.IsRequest() {
		rec.Method = m.Method
		rec.URL = m.URL()
	} else {
		rec.Status = m.StatusCode
		rec.Reason = m.Reason
	}
	for _, field := range m.Headers().Fields() {
		rec.Headers = append(rec.Headers, [2]string{field.Name, field.Value})
	}
	if raw, ok := m.RawContent(); ok {
		if utf8.Valid(raw) {
			s := string(raw)
			rec.Body = &s
		} else {
			s := base64.StdEncoding.EncodeToString(raw)
			rec.BodyBase64 = &s
		}
	}
	return rec
}

func (rec captureFlow) toFlow() (*Flow, error) {
	if rec.Request == nil {
		return nil, fmt.Errorf("missing request")
	}
	req, err := rec.Request.toMessage(RoleRequest)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	var resp *Message
	if rec.Response != nil {
		if resp, err = rec.Response.toMessage(RoleResponse); err != nil {
			return nil, fmt.Errorf("response: %w", err)
		}
	}
	f := New(req, resp)
	if rec.ID != "" {
		f.ID = rec.ID
	}
	f.Intercepted = rec.Intercepted
	f.Killable = rec.Killable
	f.Error = rec.Error
	f.ClientAddr = rec.ClientAddr
	f.ServerAddr = rec.ServerAddr
	if !rec.Created.IsZero() {
		f.Created = rec.Created
	}
	return f, nil
}

func (rec *captureMessage) toMessage(role Role) (*Message, error) {
	headers := Headers{}
	for _, pair := range rec.Headers {
		headers.Add(pair[0], pair[1])
	}
	var m *Message
	if role == RoleRequest {
		m = NewRequest(rec.Method, rec.URL, headers, nil)
	} else {
		m = NewResponse(rec.Status, rec.Reason, headers, nil)
	}
	if rec.HTTPVersion != "" {
		m.HTTPVersion = rec.HTTPVersion
	}
	m.Timestamp = rec.Timestamp
	switch {
	case rec.BodyBase64 != nil:
		raw, err := base64.StdEncoding.DecodeString(*rec.BodyBase64)
		if err != nil {
			return nil, fmt.Errorf("body_base64: %w", err)
		}
		m.SetRawContent(raw)
	case rec.Body != nil:
		m.SetRawContent([]byte(*rec.Body))
	}
	return m, nil
}
