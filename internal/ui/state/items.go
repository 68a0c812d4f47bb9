package state

// Item is one selectable row. Hint is shown beside the label; for choices it
// is the shortcut key and ranks first when typed as the filter.
type Item struct {
	ID    string
	Label string
	Hint  string
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
