// Package viewer prepares $PAGER or $EDITOR to show a message body.
package viewer

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"strings"
)

// ErrNotConfigured is returned when neither $PAGER nor $EDITOR is set.
var ErrNotConfigured = errors.New("neither $PAGER nor $EDITOR is set")

// Launch is a prepared viewer process over a temporary file.
type Launch struct {
	Cmd  *exec.Cmd
	Path string
}

// Cleanup removes the temporary file.
func (l *Launch) Cleanup() {
	if l == nil || l.Path == "" {
		return
	}
	_ = os.Remove(l.Path)
}

// Launcher writes bodies to temporary files and builds viewer commands.
type Launcher struct {
	getenv  func(string) string
	tempDir string
}

// New builds a launcher reading $PAGER and $EDITOR through getenv.
func New(getenv func(string) string) *Launcher {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Launcher{getenv: getenv}
}

// WithTempDir sets where temporary files go.
func (l *Launcher) WithTempDir(dir string) *Launcher {
	l.tempDir = dir
	return l
}

// Configured reports whether a pager or editor is set in env.
func Configured(getenv func(string) string) bool {
	return command(getenv) != ""
}

// command prefers the pager: viewing is read-only.
func command(getenv func(string) string) string {
	if v := strings.TrimSpace(getenv("PAGER")); v != "" {
		return v
	}
	return strings.TrimSpace(getenv("EDITOR"))
}

// Prepare writes content to a read-only temporary file named after the
// content type and returns the command that opens it. The caller runs the
// command and calls Cleanup afterwards.
func (l *Launcher) Prepare(content []byte, contentType string) (*Launch, error) {
	viewer := command(l.getenv)
	if viewer == "" {
		return nil, ErrNotConfigured
	}
	file, err := os.CreateTemp(l.tempDir, "flowview-*"+extensionFor(contentType))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	if _, err := file.Write(content); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	_ = os.Chmod(path, 0o400)

	// the shell splits the configured command, so quoted arguments survive
	cmd := exec.Command("sh", "-c", viewer+` "$1"`, "sh", path)
	return &Launch{Cmd: cmd, Path: path}, nil
}

func extensionFor(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/json":
		return ".json"
	case "text/html":
		return ".html"
	case "text/plain":
		return ".txt"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
