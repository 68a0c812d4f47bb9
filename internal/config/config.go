package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/flowview/internal/app"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/viewer"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Settings Settings
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
	Level    logging.Level
}

type Features struct {
	Verbose bool
}

const (
	envCapture   = "FLOWVIEW_CAPTURE"
	envView      = "FLOWVIEW_VIEW"
	envWidth     = "FLOWVIEW_WIDTH"
	envHeight    = "FLOWVIEW_HEIGHT"
	envFooter    = "FLOWVIEW_FOOTER"
	envVerbose   = "FLOWVIEW_VERBOSE"
	envTrace     = "FLOWVIEW_TRACE"
	envLogFile   = "FLOWVIEW_LOG_FILE"
	envLogLevel  = "FLOWVIEW_LOG_LEVEL"
	envConfigDir = "FLOWVIEW_CONFIG_DIR"
	envPoll      = "FLOWVIEW_POLL"
	envCacheSize = "FLOWVIEW_CACHE_SIZE"
)

const defaultPoll = 1500 * time.Millisecond

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("flowview", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	capture := fs.String("capture", envOrDefault(env, envCapture, ""), "capture file to inspect (watched for changes)")
	view := fs.String("view", envOrDefault(env, envView, ""), "default body view mode (overrides settings.toml)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	logLevel := fs.String("log-level", envOrDefault(env, envLogLevel, "info"), "minimum log level (debug, info, warn, error)")
	configDir := fs.String("config-dir", envOrDefault(env, envConfigDir, defaultConfigDir(env)), "directory holding settings.toml and bindings.toml")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, defaultPoll), "capture file poll interval (0 disables watching)")
	cacheSize := fs.Int("cache-size", envOrInt(env, envCacheSize, 0), "number of cached body renders (0 uses the default)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *poll < 0 {
		return Config{}, fmt.Errorf("poll must be >= 0 (got %s)", *poll)
	}
	if *cacheSize < 0 {
		return Config{}, fmt.Errorf("cache-size must be >= 0 (got %d)", *cacheSize)
	}
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return Config{}, err
	}
	capturePath := *capture
	if capturePath == "" && fs.NArg() > 0 {
		capturePath = fs.Arg(0)
	}

	settings, err := LoadSettings(*configDir)
	if err != nil {
		return Config{}, err
	}
	defaultView := strings.ToLower(strings.TrimSpace(*view))
	if defaultView == "" {
		defaultView = settings.DefaultView
	}
	size := *cacheSize
	if size == 0 {
		size = settings.CacheSize
	}

	cfg := Config{
		App: app.Config{
			CapturePath:      capturePath,
			DefaultView:      defaultView,
			Width:            *width,
			Height:           *height,
			ShowFooter:       *footer,
			Verbose:          *verbose,
			ConfigDir:        *configDir,
			PollInterval:     *poll,
			CacheSize:        size,
			EditorConfigured: viewer.Configured(envLookup(env)),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
			Level:    level,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Settings: settings,
		Flags: map[string]string{
			"capture":   capturePath,
			"view":      defaultView,
			"width":     strconv.Itoa(*width),
			"height":    strconv.Itoa(*height),
			"footer":    strconv.FormatBool(*footer),
			"trace":     strconv.FormatBool(*trace),
			"verbose":   strconv.FormatBool(*verbose),
			"logFile":   *logFile,
			"logLevel":  level.String(),
			"configDir": *configDir,
			"poll":      poll.String(),
			"cacheSize": strconv.Itoa(size),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envLookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.App.CapturePath) == "" {
		return fmt.Errorf("no capture file given (use -capture or %s)", envCapture)
	}
	if info, err := os.Stat(cfg.App.CapturePath); err == nil && info.IsDir() {
		return fmt.Errorf("capture path %q is a directory", cfg.App.CapturePath)
	}
	return nil
}
