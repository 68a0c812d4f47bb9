// Package keymap maps key strings to flow actions. Defaults follow the
// classic console bindings; bindings.toml in the config directory may
// override any action.
package keymap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Action identifies what a key does.
type Action string

const (
	AcceptOne       Action = "accept-one"
	AcceptAll       Action = "accept-all"
	Delete          Action = "delete"
	Duplicate       Action = "duplicate"
	Prev            Action = "prev"
	Next            Action = "next"
	Replay          Action = "replay"
	Revert          Action = "revert"
	SaveFlow        Action = "save-flow"
	RunScript       Action = "run-script"
	SaveBody        Action = "save-body"
	LoadFull        Action = "load-full"
	ChangeMode      Action = "change-mode"
	DeleteBody      Action = "delete-body"
	ViewExternal    Action = "view-external"
	EncodeDecode    Action = "encode-decode"
	ExportFile      Action = "export-file"
	ExportClipboard Action = "export-clipboard"
	NextTab         Action = "next-tab"
	PrevTab         Action = "prev-tab"
	ScrollUp        Action = "scroll-up"
	ScrollDown      Action = "scroll-down"
	PageUp          Action = "page-up"
	PageDown        Action = "page-down"
	Open            Action = "open"
	Back            Action = "back"
	Help            Action = "help"
	EventLog        Action = "event-log"
	Quit            Action = "quit"
)

// Scope says where an action applies.
type Scope int

const (
	// ScopeFlow actions only apply inside the flow view.
	ScopeFlow Scope = iota
	// ScopeFocus actions apply to the focused flow from the list too.
	ScopeFocus
	// ScopeGlobal actions are screen-level.
	ScopeGlobal
)

type definition struct {
	id       Action
	defaults []string
	help     string
	scope    Scope
	body     bool
}

var definitions = []definition{
	{id: AcceptOne, defaults: []string{"a"}, help: "accept this intercepted flow", scope: ScopeFocus},
	{id: AcceptAll, defaults: []string{"A"}, help: "accept all intercepted flows", scope: ScopeFocus},
	{id: Delete, defaults: []string{"d"}, help: "delete flow", scope: ScopeFocus},
	{id: Duplicate, defaults: []string{"D"}, help: "duplicate flow", scope: ScopeFocus},
	{id: Prev, defaults: []string{"p"}, help: "previous flow", scope: ScopeFlow},
	{id: Next, defaults: []string{" "}, help: "next flow", scope: ScopeFlow},
	{id: Replay, defaults: []string{"r"}, help: "replay request", scope: ScopeFocus},
	{id: Revert, defaults: []string{"V"}, help: "revert changes to flow", scope: ScopeFocus},
	{id: SaveFlow, defaults: []string{"W"}, help: "save this flow", scope: ScopeFocus},
	{id: RunScript, defaults: []string{"|"}, help: "run script on this flow", scope: ScopeFocus},
	{id: SaveBody, defaults: []string{"b"}, help: "save request/response body", scope: ScopeFlow, body: true},
	{id: LoadFull, defaults: []string{"f"}, help: "load full body data", scope: ScopeFlow, body: true},
	{id: ChangeMode, defaults: []string{"m"}, help: "change body display mode", scope: ScopeFlow, body: true},
	{id: DeleteBody, defaults: []string{"x"}, help: "delete body", scope: ScopeFlow, body: true},
	{id: ViewExternal, defaults: []string{"v"}, help: "view body in external viewer", scope: ScopeFlow, body: true},
	{id: EncodeDecode, defaults: []string{"z"}, help: "encode/decode a request/response", scope: ScopeFlow, body: true},
	{id: ExportFile, defaults: []string{"E"}, help: "export message to file", scope: ScopeFlow, body: true},
	{id: ExportClipboard, defaults: []string{"C"}, help: "export message to clipboard", scope: ScopeFlow, body: true},
	{id: NextTab, defaults: []string{"tab", "l"}, help: "next tab", scope: ScopeFlow},
	{id: PrevTab, defaults: []string{"h", "shift+tab"}, help: "previous tab", scope: ScopeFlow},
	{id: ScrollUp, defaults: []string{"up", "k"}, help: "scroll up", scope: ScopeGlobal},
	{id: ScrollDown, defaults: []string{"down", "j"}, help: "scroll down", scope: ScopeGlobal},
	{id: PageUp, defaults: []string{"pgup"}, help: "page up", scope: ScopeGlobal},
	{id: PageDown, defaults: []string{"pgdown"}, help: "page down", scope: ScopeGlobal},
	{id: Open, defaults: []string{"enter"}, help: "view flow", scope: ScopeGlobal},
	{id: Back, defaults: []string{"q", "esc"}, help: "back to the flow list", scope: ScopeGlobal},
	{id: Help, defaults: []string{"?"}, help: "show key bindings", scope: ScopeGlobal},
	{id: EventLog, defaults: []string{"e"}, help: "show event log", scope: ScopeGlobal},
	{id: Quit, defaults: []string{"ctrl+c", "Q"}, help: "quit", scope: ScopeGlobal},
}

var definitionLookup = func() map[Action]definition {
	out := make(map[Action]definition, len(definitions))
	for _, def := range definitions {
		out[def.id] = def
	}
	return out
}()

// Actions lists every known action in help order.
func Actions() []Action {
	out := make([]Action, len(definitions))
	for i, def := range definitions {
		out[i] = def.id
	}
	return out
}

// Known reports whether a is a defined action.
func (a Action) Known() bool {
	_, ok := definitionLookup[a]
	return ok
}

// NeedsMessage reports whether the action works on the request or response
// shown in the active tab.
func (a Action) NeedsMessage() bool {
	return definitionLookup[a].body
}

// Scope reports where the action applies.
func (a Action) Scope() Scope {
	return definitionLookup[a].scope
}

// Description is the help text for a.
func (a Action) Description() string {
	return definitionLookup[a].help
}

// Map is a resolved set of bindings.
type Map struct {
	byKey map[string]Action
	keys  map[Action][]string
}

// Source describes where bindings were loaded from.
type Source struct {
	Path   string
	Loaded bool
}

// Default builds the built-in bindings.
func Default() *Map {
	m, err := build(nil)
	if err != nil {
		panic(err)
	}
	return m
}

// Load reads bindings.toml from dir. A missing file yields the defaults.
func Load(dir string) (*Map, Source, error) {
	src := Source{Path: filepath.Join(dir, "bindings.toml")}
	if strings.TrimSpace(dir) == "" {
		return Default(), src, nil
	}
	data, err := os.ReadFile(src.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), src, nil
	}
	if err != nil {
		return nil, src, fmt.Errorf("read bindings %q: %w", src.Path, err)
	}
	overrides, err := Parse(data)
	if err != nil {
		return nil, src, fmt.Errorf("parse bindings %q: %w", src.Path, err)
	}
	m, err := build(overrides)
	if err != nil {
		return nil, src, fmt.Errorf("apply bindings %q: %w", src.Path, err)
	}
	src.Loaded = true
	return m, src, nil
}

type configFile struct {
	Bindings map[string][]string `toml:"bindings"`
}

// Parse decodes a bindings document into per-action key overrides.
func Parse(data []byte) (map[Action][]string, error) {
	var payload configFile
	if err := toml.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if len(payload.Bindings) == 0 {
		return nil, nil
	}
	overrides := make(map[Action][]string, len(payload.Bindings))
	for name, keys := range payload.Bindings {
		id := Action(name)
		if !id.Known() {
			return nil, fmt.Errorf("unknown action %q", name)
		}
		normalized := make([]string, 0, len(keys))
		for _, key := range keys {
			k, err := normalizeKey(key)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", name, err)
			}
			normalized = append(normalized, k)
		}
		overrides[id] = normalized
	}
	return overrides, nil
}

func build(overrides map[Action][]string) (*Map, error) {
	m := &Map{byKey: make(map[string]Action), keys: make(map[Action][]string, len(definitions))}
	for _, def := range definitions {
		keys := def.defaults
		if override, ok := overrides[def.id]; ok {
			keys = override
		}
		m.keys[def.id] = append([]string(nil), keys...)
	}
	// deterministic conflict messages
	ids := Actions()
	for _, id := range ids {
		for _, key := range m.keys[id] {
			if existing, ok := m.byKey[key]; ok && existing != id {
				return nil, fmt.Errorf("key %q assigned to both %s and %s", displayKey(key), existing, id)
			}
			m.byKey[key] = id
		}
	}
	return m, nil
}

// Lookup resolves a key string as produced by tea.KeyMsg.String.
func (m *Map) Lookup(key string) (Action, bool) {
	if m == nil {
		return "", false
	}
	a, ok := m.byKey[key]
	return a, ok
}

// Keys returns the keys bound to a.
func (m *Map) Keys(a Action) []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys[a]...)
}

// HelpEntry is one row of the help screen.
type HelpEntry struct {
	Keys        string
	Action      Action
	Description string
}

// Help lists bindings grouped by scope: flow actions first, then screen keys.
func (m *Map) Help() []HelpEntry {
	defs := append([]definition(nil), definitions...)
	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].scope < defs[j].scope
	})
	out := make([]HelpEntry, 0, len(defs))
	for _, def := range defs {
		keys := m.keys[def.id]
		if len(keys) == 0 {
			continue
		}
		display := make([]string, len(keys))
		for i, k := range keys {
			display[i] = displayKey(k)
		}
		out = append(out, HelpEntry{Keys: strings.Join(display, "/"), Action: def.id, Description: def.help})
	}
	return out
}

func normalizeKey(raw string) (string, error) {
	if raw == " " {
		return " ", nil
	}
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", errors.New("empty key")
	}
	switch strings.ToLower(key) {
	case "space":
		return " ", nil
	case "enter", "return":
		return "enter", nil
	case "esc", "escape":
		return "esc", nil
	case "tab", "shift+tab", "up", "down", "left", "right", "pgup", "pgdown", "home", "end", "backspace":
		return strings.ToLower(key), nil
	case "pageup":
		return "pgup", nil
	case "pagedown":
		return "pgdown", nil
	}
	if strings.Contains(key, "+") && len([]rune(key)) > 1 {
		return strings.ToLower(key), nil
	}
	if len([]rune(key)) != 1 {
		return "", fmt.Errorf("unsupported key %q", raw)
	}
	return key, nil
}

func displayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
