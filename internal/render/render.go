// Package render turns a message into a bounded list of styled lines.
//
// Results are cached by (view mode, line budget, fingerprint). The fingerprint
// covers the raw body, every header field and the request path, so any edit
// to those produces a new key; nothing is ever evicted explicitly.
package render

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/atomicstack/flowview/internal/contentview"
	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/logging/events"
)

const (
	// DefaultBudget is the line budget used unless full contents were requested.
	DefaultBudget = 512
	// Unlimited disables truncation.
	Unlimited = math.MaxInt
	// DefaultCacheSize bounds the number of cached renders.
	DefaultCacheSize = 200
	// LineWidth is the nominal line width used for budgeting, not the
	// terminal width.
	LineWidth = 80
)

// MissingContent is the single line shown for messages without a body.
const MissingContent = "[content missing]"

const requestNoContent = "No request content (press tab to view response)"

// Transformer produces the description and lines for a message in a view
// mode. It must be a pure function of the mode, body and headers.
type Transformer interface {
	Transform(mode string, msg *flow.Message) (string, []contentview.Line, error)
}

// Logger receives provider errors.
type Logger interface {
	Log(level logging.Level, message string)
}

type cacheKey struct {
	mode        string
	budget      int
	fingerprint uint64
}

type cacheEntry struct {
	description string
	lines       []contentview.Line
}

// Renderer renders messages through a Transformer and caches the results.
type Renderer struct {
	provider Transformer
	logger   Logger
	cache    *lru.Cache[cacheKey, cacheEntry]
}

// New builds a renderer holding at most size cached results. A size of zero
// or less selects DefaultCacheSize.
func New(provider Transformer, logger Logger, size int) (*Renderer, error) {
	if provider == nil {
		return nil, fmt.Errorf("render: transformer is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("render: create cache: %w", err)
	}
	if logger == nil {
		logger = logging.Sink{}
	}
	return &Renderer{provider: provider, logger: logger, cache: cache}, nil
}

// Render returns the description and lines for msg in the given view mode,
// limited to budget nominal lines. Messages without content bypass the cache.
func (r *Renderer) Render(mode string, msg *flow.Message, budget int) (string, []contentview.Line) {
	if msg == nil {
		return "", missingLines()
	}
	if _, ok := msg.RawContent(); !ok {
		events.Render.Missing(msg.Role().String())
		return "", missingLines()
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	key := cacheKey{mode: mode, budget: budget, fingerprint: Fingerprint(msg)}
	if entry, ok := r.cache.Get(key); ok {
		events.Render.Hit(mode, budget, key.fingerprint)
		return entry.description, contentview.CloneLines(entry.lines)
	}

	description, lines, err := r.provider.Transform(mode, msg)
	if err != nil {
		r.logger.Log(logging.LevelWarn, err.Error())
	}
	if description == contentview.NoContent && msg.IsRequest() {
		description = requestNoContent
	}
	lines, truncated := Truncate(lines, budget)
	events.Render.Miss(mode, budget, key.fingerprint, len(lines), truncated)

	r.cache.Add(key, cacheEntry{description: description, lines: contentview.CloneLines(lines)})
	return description, lines
}

// Len reports the number of cached renders.
func (r *Renderer) Len() int {
	return r.cache.Len()
}

// Purge drops every cached render.
func (r *Renderer) Purge() {
	r.cache.Purge()
}

func missingLines() []contentview.Line {
	return []contentview.Line{{{Style: contentview.StyleError, Text: MissingContent}}}
}
