package flow

// Collection is the ordered set of active flows with a single focus.
type Collection struct {
	flows []*Flow
	focus int
}

// NewCollection builds a collection focused on its first flow.
func NewCollection(flows ...*Flow) *Collection {
	c := &Collection{focus: -1}
	for _, f := range flows {
		c.Add(f)
	}
	return c
}

// Len reports the number of flows.
func (c *Collection) Len() int {
	return len(c.flows)
}

// Inbounds reports whether i addresses a flow.
func (c *Collection) Inbounds(i int) bool {
	return i >= 0 && i < len(c.flows)
}

// At returns the flow at index i, or nil when out of bounds.
func (c *Collection) At(i int) *Flow {
	if !c.Inbounds(i) {
		return nil
	}
	return c.flows[i]
}

// Index returns the position of f, or -1.
func (c *Collection) Index(f *Flow) int {
	if f == nil {
		return -1
	}
	for i, candidate := range c.flows {
		if candidate == f || candidate.ID == f.ID {
			return i
		}
	}
	return -1
}

// Get looks a flow up by identity.
func (c *Collection) Get(id string) *Flow {
	for _, f := range c.flows {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Add appends f. The first flow added takes the focus.
func (c *Collection) Add(f *Flow) {
	if f == nil || c.Index(f) >= 0 {
		return
	}
	c.flows = append(c.flows, f)
	if c.focus < 0 {
		c.focus = 0
	}
}

// Insert places f directly after the flow at index after and returns its
// position. An out-of-range index appends.
func (c *Collection) Insert(after int, f *Flow) int {
	if f == nil {
		return -1
	}
	if idx := c.Index(f); idx >= 0 {
		return idx
	}
	pos := after + 1
	if pos <= 0 || pos > len(c.flows) {
		c.flows = append(c.flows, f)
		pos = len(c.flows) - 1
	} else {
		c.flows = append(c.flows, nil)
		copy(c.flows[pos+1:], c.flows[pos:])
		c.flows[pos] = f
		if c.focus >= pos {
			c.focus++
		}
	}
	if c.focus < 0 {
		c.focus = 0
	}
	return pos
}

// Update replaces the flow sharing f's ID in place, or appends f when the ID
// is new. It reports whether an existing flow was replaced.
func (c *Collection) Update(f *Flow) bool {
	if f == nil {
		return false
	}
	for i, existing := range c.flows {
		if existing.ID == f.ID {
			c.flows[i] = f
			return true
		}
	}
	c.Add(f)
	return false
}

// Each calls fn for every flow in order until fn returns false.
func (c *Collection) Each(fn func(int, *Flow) bool) {
	for i, f := range c.flows {
		if !fn(i, f) {
			return
		}
	}
}

// Remove drops f. Focus stays on the same index, clamped to the new length.
func (c *Collection) Remove(f *Flow) bool {
	idx := c.Index(f)
	if idx < 0 {
		return false
	}
	c.flows = append(c.flows[:idx], c.flows[idx+1:]...)
	switch {
	case len(c.flows) == 0:
		c.focus = -1
	case c.focus > idx:
		c.focus--
	case c.focus >= len(c.flows):
		c.focus = len(c.flows) - 1
	}
	return true
}

// Focus returns the focused flow, or nil for an empty collection.
func (c *Collection) Focus() *Flow {
	return c.At(c.focus)
}

// FocusIndex returns the focused position, or -1.
func (c *Collection) FocusIndex() int {
	if !c.Inbounds(c.focus) {
		return -1
	}
	return c.focus
}

// SetFocus moves the focus to f if it is part of the collection.
func (c *Collection) SetFocus(f *Flow) bool {
	idx := c.Index(f)
	if idx < 0 {
		return false
	}
	c.focus = idx
	return true
}

// SetFocusIndex moves the focus to position i.
func (c *Collection) SetFocusIndex(i int) bool {
	if !c.Inbounds(i) {
		return false
	}
	c.focus = i
	return true
}

// Flows returns the flows in order. The slice is a copy; the flows are shared.
func (c *Collection) Flows() []*Flow {
	dup := make([]*Flow, len(c.flows))
	copy(dup, c.flows)
	return dup
}

// Intercepted returns every flow currently held by the proxy.
func (c *Collection) Intercepted() []*Flow {
	var held []*Flow
	for _, f := range c.flows {
		if f.Intercepted {
			held = append(held, f)
		}
	}
	return held
}
