// Package export writes flows and messages out of the inspector: whole flows
// in capture format, bodies as bytes, and messages as raw HTTP text to a file
// or the system clipboard.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/atomicstack/flowview/internal/flow"
)

// Files implements the inspector's save and export collaborators.
type Files struct {
	writeClipboard func(string) error
}

// New returns exporters backed by the filesystem and the system clipboard.
func New() *Files {
	x := &Files{}
	if !clipboard.Unsupported {
		x.writeClipboard = clipboard.WriteAll
	}
	return x
}

// WithClipboard replaces the clipboard writer.
func (x *Files) WithClipboard(write func(string) error) *Files {
	x.writeClipboard = write
	return x
}

// SaveFlow writes f to path in capture format.
func (x *Files) SaveFlow(path string, f *flow.Flow) error {
	return flow.SaveFile(path, f)
}

// SaveBody writes content to path.
func (x *Files) SaveBody(path string, content []byte) error {
	return writeFile(path, content)
}

// ExportFile writes msg as raw HTTP text to path.
func (x *Files) ExportFile(path string, msg *flow.Message) error {
	return writeFile(path, Raw(msg))
}

// ExportClipboard copies msg as raw HTTP text to the clipboard.
func (x *Files) ExportClipboard(msg *flow.Message) error {
	if x.writeClipboard == nil {
		return errors.New("clipboard is not supported on this system")
	}
	return x.writeClipboard(string(Raw(msg)))
}

// Raw formats msg as it would appear on the wire, with the body decoded.
func Raw(msg *flow.Message) []byte {
	if msg == nil {
		return nil
	}
	var buf bytes.Buffer
	if msg.IsRequest() {
		fmt.Fprintf(&buf, "%s %s %s\r\n", msg.Method, msg.Path, msg.HTTPVersion)
	} else {
		fmt.Fprintf(&buf, "%s %d %s\r\n", msg.HTTPVersion, msg.StatusCode, msg.Reason)
	}
	body, err := msg.Content()
	decoded := err == nil
	for _, field := range msg.Headers().Fields() {
		if decoded && strings.EqualFold(field.Name, "content-encoding") && msg.ContentEncoding() != flow.IdentityEncoding {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", field.Name, field.Value)
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes()
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %q: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
