package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "flowview.log"

// Level is the severity of a log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a level name to a Level. Unknown names are reported as an
// error and map to LevelInfo.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

var (
	traceMu      sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	minLevel     = LevelInfo
	recent       []Entry
)

// Entry is a log line kept in memory for the event log screen.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

const maxRecent = 200

// Error writes errors to the shared log file, mirroring the previous behaviour.
func Error(err error) {
	if err == nil {
		return
	}

	f, ferr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if ferr != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", ferr)
		return
	}
	defer f.Close()

	log.SetOutput(f)
	log.Println(err)
}

// SetLevel sets the minimum level written by Log.
func SetLevel(level Level) {
	traceMu.Lock()
	minLevel = level
	traceMu.Unlock()
}

// Log appends a levelled entry to the shared log file. Entries below the
// configured level are dropped. It never fails loudly: write errors go to
// stderr.
func Log(level Level, message string) {
	traceMu.Lock()
	if level < minLevel {
		traceMu.Unlock()
		return
	}
	now := time.Now()
	recent = append(recent, Entry{Time: now, Level: level, Message: message})
	if len(recent) > maxRecent {
		recent = append([]Entry(nil), recent[len(recent)-maxRecent:]...)
	}
	path := logPath
	traceMu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s [%s] %s\n", now.Format(time.RFC3339), level, message)
}

// Warn logs at warning level.
func Warn(message string) {
	Log(LevelWarn, message)
}

// Recent returns the most recent entries, oldest first.
func Recent() []Entry {
	traceMu.Lock()
	defer traceMu.Unlock()
	return append([]Entry(nil), recent...)
}

// Sink adapts the package-level logger to collaborators that take a logger value.
type Sink struct{}

// Log forwards to the package-level Log.
func (Sink) Log(level Level, message string) {
	Log(level, message)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	traceMu.Lock()
	traceEnabled = enabled
	traceMu.Unlock()
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	traceMu.Lock()
	enabled := traceEnabled
	traceMu.Unlock()
	if !enabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace logging failed: %v\n", err)
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(entry); err != nil {
		fmt.Fprintf(os.Stderr, "trace encoding failed: %v\n", err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	traceMu.Lock()
	defer traceMu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}
