package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/flowview/internal/backend"
	"github.com/atomicstack/flowview/internal/contentview"
	"github.com/atomicstack/flowview/internal/export"
	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/logging/events"
	"github.com/atomicstack/flowview/internal/render"
	"github.com/atomicstack/flowview/internal/replay"
	"github.com/atomicstack/flowview/internal/script"
	"github.com/atomicstack/flowview/internal/ui"
	"github.com/atomicstack/flowview/internal/viewer"
)

// Config describes user-provided application options.
type Config struct {
	CapturePath      string
	DefaultView      string
	Width            int
	Height           int
	ShowFooter       bool
	Verbose          bool
	ConfigDir        string
	PollInterval     time.Duration
	CacheSize        int
	EditorConfigured bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	defer func() { events.App.Stop(err) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, stop, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer stop()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// newModel loads the capture and wires the inspector's collaborators. The
// returned func stops the capture watcher.
func newModel(ctx context.Context, cfg Config) (*ui.Model, func(), error) {
	flows, err := flow.LoadFile(cfg.CapturePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load capture: %w", err)
	}

	views := contentview.Default()
	if cfg.DefaultView != "" {
		if err := views.SetDefault(cfg.DefaultView); err != nil {
			return nil, nil, fmt.Errorf("default view %q: %w", cfg.DefaultView, err)
		}
	}
	renderer, err := render.New(views, logging.Sink{}, cfg.CacheSize)
	if err != nil {
		return nil, nil, err
	}
	keys, src, err := keymap.Load(cfg.ConfigDir)
	if err != nil {
		return nil, nil, err
	}
	if src.Loaded {
		logging.Log(logging.LevelInfo, fmt.Sprintf("Loaded key bindings from %s", src.Path))
	}

	files := export.New()
	inspector, err := inspect.New(inspect.Config{
		DefaultViewMode:  views.DefaultName(),
		EditorConfigured: cfg.EditorConfigured,
	}, inspect.Deps{
		Flows:     flow.NewCollection(flows...),
		Renderer:  renderer,
		Catalogue: views,
		Keys:      keys,
		Logger:    logging.Sink{},
		Replayer:  replay.New(replay.Options{}),
		FlowSaver: files,
		Scripts:   script.NewRunner(logging.Sink{}),
		BodySaver: files,
		Viewer:    viewer.New(os.Getenv),
		Exporter:  files,
	})
	if err != nil {
		return nil, nil, err
	}

	var watcher *backend.Watcher
	stop := func() {}
	if cfg.PollInterval > 0 {
		watcher = backend.NewWatcher(cfg.CapturePath, cfg.PollInterval)
		stop = watcher.Stop
	}

	model := ui.NewModel(ui.Options{
		Inspector:  inspector,
		Watcher:    watcher,
		Context:    ctx,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
	})
	return model, stop, nil
}
