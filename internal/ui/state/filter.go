package state

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// AppendFilter adds text to the end of the filter.
func (l *Level) AppendFilter(text string) bool {
	if text == "" {
		return false
	}
	l.setFilter(l.Filter + text)
	return true
}

// DeleteFilterRune removes the last rune of the filter.
func (l *Level) DeleteFilterRune() bool {
	runes := []rune(l.Filter)
	if len(runes) == 0 {
		return false
	}
	l.setFilter(string(runes[:len(runes)-1]))
	return true
}

// DeleteFilterWord removes the last word of the filter and the spaces after it.
func (l *Level) DeleteFilterWord() bool {
	runes := []rune(l.Filter)
	if len(runes) == 0 {
		return false
	}
	i := len(runes)
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	l.setFilter(string(runes[:i]))
	return true
}

// ClearFilter empties the filter.
func (l *Level) ClearFilter() bool {
	if l.Filter == "" {
		return false
	}
	l.setFilter("")
	return true
}

// setFilter re-ranks the items. Typing puts the cursor on the best match;
// clearing returns it to the item selected before the filter was typed.
func (l *Level) setFilter(query string) {
	wasActive := strings.TrimSpace(l.Filter) != ""
	active := strings.TrimSpace(query) != ""
	if active && !wasActive {
		if item, ok := l.Current(); ok {
			l.anchor = item.ID
		}
	}
	l.Filter = query
	l.Items = Rank(l.Full, query)
	l.Cursor = 0
	l.Offset = 0
	if !active {
		l.Select(l.anchor)
		l.anchor = ""
	}
}

// Rank returns the items matching query, best first. A shortcut hint typed in
// full beats an exact name, which beats a prefix, which beats a fuzzy match.
// Equal ranks keep their original order. An empty query keeps every item.
func Rank(items []Item, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return CloneItems(items)
	}
	type ranked struct {
		item  Item
		score int
	}
	matches := make([]ranked, 0, len(items))
	for _, item := range items {
		if score, ok := matchScore(item, query); ok {
			matches = append(matches, ranked{item: item, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})
	out := make([]Item, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

func matchScore(item Item, query string) (int, bool) {
	switch {
	case item.Hint != "" && strings.EqualFold(item.Hint, query):
		return 0, true
	case strings.EqualFold(item.Label, query), strings.EqualFold(item.ID, query):
		return 1, true
	case hasPrefixFold(item.Label, query), hasPrefixFold(item.ID, query):
		return 2, true
	}
	best := -1
	for _, target := range []string{item.Label, item.ID} {
		if d := fuzzy.RankMatchNormalizedFold(query, target); d >= 0 && (best < 0 || d < best) {
			best = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return 3 + best, true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
