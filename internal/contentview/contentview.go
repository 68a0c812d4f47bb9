// Package contentview turns message bodies into styled lines. Every view is a
// pure function of the body bytes and the declared content type, which is
// what lets the renderer cache its output by fingerprint.
package contentview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/flowview/internal/flow"
)

// Style names understood by the theme.
const (
	StyleText      = "text"
	StyleKey       = "key"
	StyleValue     = "value"
	StyleString    = "string"
	StyleNumber    = "number"
	StyleKeyword   = "keyword"
	StyleComment   = "comment"
	StyleTag       = "tag"
	StyleOffset    = "offset"
	StyleError     = "error"
	StyleHighlight = "highlight"
)

// NoContent is the description returned for empty bodies.
const NoContent = "No content"

// ErrUnknownView is returned for view names missing from the registry.
var ErrUnknownView = errors.New("unknown view mode")

// Segment is a run of text drawn in a single style.
type Segment struct {
	Style string
	Text  string
}

// Line is one display line made of styled segments.
type Line []Segment

// Text joins the segment texts.
func (l Line) Text() string {
	var b strings.Builder
	for _, seg := range l {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// CloneLines deep-copies lines so callers never share backing arrays.
func CloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = append(Line(nil), line...)
	}
	return out
}

// View renders body bytes into a description and styled lines.
type View interface {
	Name() string
	// Key is the chooser shortcut.
	Key() string
	Render(data []byte, contentType string) (string, []Line, error)
}

// Registry is the catalogue of available views plus the process default.
type Registry struct {
	views       []View
	byName      map[string]View
	defaultName string
}

// NewRegistry builds a registry in the given order. The first view is the
// default unless SetDefault says otherwise.
func NewRegistry(views ...View) *Registry {
	r := &Registry{byName: make(map[string]View, len(views))}
	for _, v := range views {
		if v == nil {
			continue
		}
		name := strings.ToLower(v.Name())
		if _, dup := r.byName[name]; dup {
			continue
		}
		r.views = append(r.views, v)
		r.byName[name] = v
	}
	if len(r.views) > 0 {
		r.defaultName = strings.ToLower(r.views[0].Name())
	}
	return r
}

// Default returns the built-in catalogue with auto as the default view.
func Default() *Registry {
	r := NewRegistry(
		RawView{},
		HexView{},
		JSONView{},
		XMLView{},
		NewHighlightView("html", "h", "HTML", "html"),
		NewHighlightView("javascript", "j", "JavaScript", "javascript"),
		NewHighlightView("css", "c", "CSS", "css"),
		URLEncodedView{},
	)
	auto := &AutoView{registry: r}
	r.views = append([]View{auto}, r.views...)
	r.byName[auto.Name()] = auto
	r.defaultName = auto.Name()
	return r
}

// SetDefault changes the process-wide default view.
func (r *Registry) SetDefault(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	r.defaultName = name
	return nil
}

// DefaultName returns the process-wide default view name.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Names lists view names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.views))
	for i, v := range r.views {
		names[i] = v.Name()
	}
	return names
}

// Views lists the views in registry order.
func (r *Registry) Views() []View {
	return append([]View(nil), r.views...)
}

// Get looks a view up by name.
func (r *Registry) Get(name string) (View, bool) {
	v, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// ByKey finds the view bound to a chooser shortcut.
func (r *Registry) ByKey(key string) (View, bool) {
	for _, v := range r.views {
		if v.Key() == key {
			return v, true
		}
	}
	return nil, false
}

// Transform renders msg in the named view. Decoding problems and view
// failures fall back to the raw view; the error is returned alongside the
// lines that were produced.
func (r *Registry) Transform(mode string, msg *flow.Message) (string, []Line, error) {
	if msg == nil {
		return "", nil, nil
	}
	if _, ok := msg.RawContent(); !ok {
		return "", nil, nil
	}
	data, decodeErr := msg.Content()
	if len(data) == 0 {
		return NoContent, nil, nil
	}
	view, ok := r.Get(mode)
	if !ok {
		desc, lines, _ := RawView{}.Render(data, msg.ContentType())
		return desc, lines, fmt.Errorf("%w: %q", ErrUnknownView, mode)
	}
	desc, lines, err := view.Render(data, msg.ContentType())
	if err != nil {
		_, lines, _ = RawView{}.Render(data, msg.ContentType())
		desc = "Couldn't parse: falling back to Raw"
		err = fmt.Errorf("%s view: %w", view.Name(), err)
	}
	if decodeErr != nil {
		desc = "[cannot decode] " + desc
		err = errors.Join(err, decodeErr)
	}
	return desc, lines, err
}
