package state

// Level is a selectable list: the flow list or the choices of a prompt.
// Items is Full narrowed by Filter.
type Level struct {
	ID     string
	Title  string
	Items  []Item
	Full   []Item
	Filter string
	Cursor int
	// Offset is the first item drawn.
	Offset int

	// anchor is the item selected before the filter was typed.
	anchor string
}

// NewLevel constructs a Level using the provided items.
func NewLevel(id, title string, items []Item) *Level {
	l := &Level{ID: id, Title: title}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index for a given item identifier.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Select moves the cursor to the item with the given id.
func (l *Level) Select(id string) bool {
	idx := l.IndexOf(id)
	if idx < 0 {
		return false
	}
	l.Cursor = idx
	return true
}

// Current returns the item under the cursor.
func (l *Level) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the items, keeping the selected item when it is still
// present.
func (l *Level) UpdateItems(items []Item) {
	selected, _ := l.Current()
	l.Full = CloneItems(items)
	l.Items = Rank(l.Full, l.Filter)
	if !l.Select(selected.ID) {
		l.clampCursor()
	}
}
