// Package script runs a JavaScript file once against a flow.
//
// The file is evaluated in a fresh goja runtime. If it defines request(flow)
// or response(flow) those hooks are called in that order, the second only
// when the flow has a response. Scripts see a small accessor API:
//
//	flow.id, flow.request.getHeader(name), flow.request.setBody(text),
//	flow.response.getStatus(), flow.response.setStatus(code, reason), ...
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dop251/goja"

	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/logging"
)

// Logger receives console output from scripts.
type Logger interface {
	Log(level logging.Level, message string)
}

// Runner executes scripts from disk.
type Runner struct {
	readFile func(string) ([]byte, error)
	logger   Logger
}

// NewRunner builds a runner that reads scripts from the filesystem. A nil
// logger sends console output to the process log.
func NewRunner(logger Logger) *Runner {
	if logger == nil {
		logger = logging.Sink{}
	}
	return &Runner{readFile: os.ReadFile, logger: logger}
}

// RunScript evaluates the script at path against a copy of f and returns the
// copy as the script left it. f itself is never touched.
func (r *Runner) RunScript(ctx context.Context, path string, f *flow.Flow) (*flow.Flow, error) {
	if f == nil {
		return nil, errors.New("script: no flow")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	source := strings.TrimSpace(string(data))
	out := f.Snapshot()
	if source == "" {
		return out, nil
	}

	vm := goja.New()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	if err := r.bindConsole(vm); err != nil {
		return nil, fmt.Errorf("bind console api: %w", err)
	}
	api := newFlowAPI(out)
	if _, err := vm.RunScript(path, source); err != nil {
		return nil, r.scriptError(ctx, "execute script", err)
	}
	if err := callHook(vm, "request", api.object()); err != nil {
		return nil, r.scriptError(ctx, "request hook", err)
	}
	if out.Response != nil {
		if err := callHook(vm, "response", api.object()); err != nil {
			return nil, r.scriptError(ctx, "response hook", err)
		}
	}
	return out, nil
}

func (r *Runner) scriptError(ctx context.Context, what string, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%s: %w", what, err)
}

func callHook(vm *goja.Runtime, name string, arg map[string]interface{}) error {
	fn, ok := goja.AssertFunction(vm.Get(name))
	if !ok {
		return nil
	}
	_, err := fn(goja.Undefined(), vm.ToValue(arg))
	return err
}

func (r *Runner) bindConsole(vm *goja.Runtime) error {
	logAt := func(level logging.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			r.logger.Log(level, "script: "+strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	console := map[string]func(goja.FunctionCall) goja.Value{
		"log":   logAt(logging.LevelInfo),
		"warn":  logAt(logging.LevelWarn),
		"error": logAt(logging.LevelError),
	}
	return vm.Set("console", console)
}
