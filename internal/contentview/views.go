package contentview

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// RawView shows the body text unchanged.
type RawView struct{}

func (RawView) Name() string { return "raw" }
func (RawView) Key() string  { return "r" }

func (RawView) Render(data []byte, _ string) (string, []Line, error) {
	return "Raw", textLines(string(data), StyleText), nil
}

// HexView shows offset, hex bytes, and printable characters, 16 bytes a row.
type HexView struct{}

func (HexView) Name() string { return "hex" }
func (HexView) Key() string  { return "e" }

func (HexView) Render(data []byte, _ string) (string, []Line, error) {
	const width = 16
	lines := make([]Line, 0, len(data)/width+1)
	for off := 0; off < len(data); off += width {
		end := off + width
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]
		var hexPart strings.Builder
		for i := 0; i < width; i++ {
			if i == width/2 {
				hexPart.WriteByte(' ')
			}
			if i < len(row) {
				hexPart.WriteString(hex.EncodeToString(row[i : i+1]))
			} else {
				hexPart.WriteString("  ")
			}
			if i < width-1 {
				hexPart.WriteByte(' ')
			}
		}
		printable := make([]byte, len(row))
		for i, b := range row {
			if b >= 0x20 && b < 0x7f {
				printable[i] = b
			} else {
				printable[i] = '.'
			}
		}
		lines = append(lines, Line{
			{Style: StyleOffset, Text: fmt.Sprintf("%08x", off)},
			{Style: StyleText, Text: "  " + hexPart.String() + "  "},
			{Style: StyleString, Text: string(printable)},
		})
	}
	return "Hex", lines, nil
}

// URLEncodedView lists form fields in the order they were sent.
type URLEncodedView struct{}

func (URLEncodedView) Name() string { return "urlencoded" }
func (URLEncodedView) Key() string  { return "u" }

func (URLEncodedView) Render(data []byte, _ string) (string, []Line, error) {
	text := strings.TrimSpace(string(data))
	if !utf8.ValidString(text) {
		return "", nil, fmt.Errorf("form body is not valid UTF-8")
	}
	var lines []Line
	for _, pair := range strings.FieldsFunc(text, func(r rune) bool { return r == '&' || r == ';' }) {
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return "", nil, fmt.Errorf("decode field %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return "", nil, fmt.Errorf("decode value of %q: %w", key, err)
		}
		lines = append(lines, Line{
			{Style: StyleKey, Text: key + ":"},
			{Style: StyleText, Text: " "},
			{Style: StyleValue, Text: value},
		})
	}
	return "URLEncoded form", lines, nil
}

// AutoView picks a concrete view from the content type and the body itself.
type AutoView struct {
	registry *Registry
}

func (*AutoView) Name() string { return "auto" }
func (*AutoView) Key() string  { return "a" }

func (a *AutoView) Render(data []byte, contentType string) (string, []Line, error) {
	name := Detect(data, contentType)
	view, ok := a.registry.Get(name)
	if !ok {
		view = RawView{}
	}
	desc, lines, err := view.Render(data, contentType)
	if err != nil && name != "raw" {
		// auto never fails outright; a body that lies about its type is raw
		return RawView{}.Render(data, contentType)
	}
	return desc, lines, err
}

// Detect chooses a view name for a body.
func Detect(data []byte, contentType string) string {
	ct := strings.ToLower(contentType)
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	ct = strings.TrimSpace(ct)
	switch {
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		return "json"
	case ct == "application/xml" || ct == "text/xml" || strings.HasSuffix(ct, "+xml"):
		return "xml"
	case ct == "text/html" || ct == "application/xhtml":
		return "html"
	case strings.Contains(ct, "javascript") || ct == "application/ecmascript":
		return "javascript"
	case ct == "text/css":
		return "css"
	case ct == "application/x-www-form-urlencoded":
		return "urlencoded"
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && looksLikeJSON(trimmed) {
		return "json"
	}
	if isBinary(data) {
		return "hex"
	}
	return "raw"
}

func isBinary(data []byte) bool {
	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if utf8.Valid(sample) {
		return false
	}
	// a multi-byte rune may be cut at the sample edge
	if len(data) > len(sample) {
		for cut := 1; cut <= 3 && cut < len(sample); cut++ {
			if utf8.Valid(sample[:len(sample)-cut]) {
				return false
			}
		}
	}
	return true
}

func textLines(text, style string) []Line {
	text = strings.ToValidUTF8(text, "�")
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, part := range parts {
		lines[i] = Line{{Style: style, Text: expandTabs(part)}}
	}
	return lines
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", "    ")
}
