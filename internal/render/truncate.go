package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/atomicstack/flowview/internal/contentview"
)

// Truncate bounds lines to budget*LineWidth characters. Each emitted line is
// charged a whole number of nominal lines. When the budget runs out a notice
// line is appended and the second result is true.
func Truncate(lines []contentview.Line, budget int) ([]contentview.Line, bool) {
	if budget == Unlimited || budget > Unlimited/LineWidth {
		return contentview.CloneLines(lines), false
	}
	maxChars := budget * LineWidth
	total := 0
	out := make([]contentview.Line, 0, len(lines))
	for _, line := range lines {
		emitted := make(contentview.Line, 0, len(line))
		for _, seg := range line {
			text := seg.Text
			n := utf8.RuneCountInString(text)
			if total+n > maxChars {
				text = firstRunes(text, maxChars-total)
				n = maxChars - total
			}
			emitted = append(emitted, contentview.Segment{Style: seg.Style, Text: text})
			total += n
			if total == maxChars {
				break
			}
		}
		total = roundUp(total, LineWidth)
		out = append(out, emitted)
		if total >= maxChars {
			out = append(out, Notice(budget))
			return out, true
		}
	}
	return out, false
}

// Notice is the line appended to truncated renders.
func Notice(budget int) contentview.Line {
	return contentview.Line{
		{Style: contentview.StyleHighlight, Text: fmt.Sprintf("Stopped displaying data after %d lines. Press ", budget)},
		{Style: contentview.StyleKey, Text: "f"},
		{Style: contentview.StyleHighlight, Text: " to load all data."},
	}
}

func roundUp(n, multiple int) int {
	if rem := n % multiple; rem != 0 {
		return n + multiple - rem
	}
	return n
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
