package events

import "github.com/atomicstack/flowview/internal/logging"

type RenderTracer struct{}

var Render = RenderTracer{}

func (RenderTracer) Hit(mode string, budget int, fingerprint uint64) {
	logging.Trace("render.hit", map[string]interface{}{"mode": mode, "budget": budget, "fingerprint": fingerprint})
}

func (RenderTracer) Miss(mode string, budget int, fingerprint uint64, lines int, truncated bool) {
	logging.Trace("render.miss", map[string]interface{}{
		"mode":        mode,
		"budget":      budget,
		"fingerprint": fingerprint,
		"lines":       lines,
		"truncated":   truncated,
	})
}

func (RenderTracer) Missing(role string) {
	logging.Trace("render.missing", map[string]interface{}{"role": role})
}
