package backend

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/flowview/internal/flow"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindFlows Kind = iota
)

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Loader reads every flow from a capture file.
type Loader func(path string) ([]*flow.Flow, error)

// Watcher polls a capture file at a fixed interval and publishes the flows it
// holds whenever the file changes.
type Watcher struct {
	path     string
	interval time.Duration
	load     Loader

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// NewWatcher creates a watcher that checks path every interval. The initial
// contents are assumed loaded by the caller; only later changes are emitted.
func NewWatcher(path string, interval time.Duration) *Watcher {
	return newWatcher(path, interval, flow.LoadFile)
}

func newWatcher(path string, interval time.Duration, load Loader) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		load:     load,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startCapturePoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current read completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller goroutine has exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startCapturePoller() {
	// a change is loaded once the file has held still for one poll interval
	settled := newSettle(w.interval)
	last, _ := stat(w.path)
	var failing string
	// repeated identical failures are reported once
	fail := func(err error) (interface{}, bool, error) {
		if err.Error() == failing {
			return nil, false, nil
		}
		failing = err.Error()
		return nil, true, err
	}
	w.wg.Add(1)
	go w.poll(KindFlows, func(ctx context.Context) (interface{}, bool, error) {
		current, err := stat(w.path)
		if err != nil {
			return fail(err)
		}
		if current.same(last) {
			settled.reset()
			return nil, false, nil
		}
		if !settled.ready(current, time.Now()) {
			return nil, false, nil
		}
		flows, err := w.load(w.path)
		if err != nil {
			return fail(err)
		}
		last = current
		settled.reset()
		failing = ""
		return flows, true, nil
	})
}

func (s fileStamp) same(other fileStamp) bool {
	return s.size == other.size && s.modTime.Equal(other.modTime)
}

func stat(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, bool, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, changed, err := fetch(w.ctx)
		if !changed {
			return true
		}
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
