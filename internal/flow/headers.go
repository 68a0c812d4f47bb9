package flow

import "strings"

// Field is a single header line. Order and duplicates are preserved.
type Field struct {
	Name  string
	Value string
}

// Headers is an ordered, multi-valued header list with case-insensitive lookups.
type Headers struct {
	fields []Field
}

// NewHeaders builds a header list from alternating name/value pairs.
func NewHeaders(pairs ...string) Headers {
	h := Headers{}
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

// Fields returns a copy of every header field in order.
func (h Headers) Fields() []Field {
	if len(h.fields) == 0 {
		return nil
	}
	dup := make([]Field, len(h.fields))
	copy(dup, h.fields)
	return dup
}

// Len reports the number of header fields.
func (h Headers) Len() int {
	return len(h.fields)
}

// Get returns the first value stored under name.
func (h Headers) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns every value stored under name.
func (h Headers) GetAll(name string) []string {
	var values []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Add appends a field without touching existing ones.
func (h *Headers) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Set replaces all fields named name with a single field. The first
// occurrence keeps its position; new names are appended.
func (h *Headers) Set(name, value string) {
	out := h.fields[:0:0]
	placed := false
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			if placed {
				continue
			}
			out = append(out, Field{Name: f.Name, Value: value})
			placed = true
			continue
		}
		out = append(out, f)
	}
	if !placed {
		out = append(out, Field{Name: name, Value: value})
	}
	h.fields = out
}

// Del removes every field named name.
func (h *Headers) Del(name string) {
	out := h.fields[:0:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Clone returns an independent copy.
func (h Headers) Clone() Headers {
	return Headers{fields: h.Fields()}
}

// Equal reports whether both lists hold the same fields in the same order.
func (h Headers) Equal(other Headers) bool {
	if len(h.fields) != len(other.fields) {
		return false
	}
	for i := range h.fields {
		if h.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}
