package state

// MoveCursor moves the cursor by delta, stopping at the first and last item.
func (l *Level) MoveCursor(delta int) bool {
	return l.setCursor(l.Cursor + delta)
}

// MoveCursorHome moves the cursor to the first item.
func (l *Level) MoveCursorHome() bool {
	return l.setCursor(0)
}

// MoveCursorEnd moves the cursor to the last item.
func (l *Level) MoveCursorEnd() bool {
	return l.setCursor(len(l.Items) - 1)
}

func (l *Level) setCursor(i int) bool {
	old := l.Cursor
	l.Cursor = i
	l.clampCursor()
	return l.Cursor != old
}

func (l *Level) clampCursor() {
	switch {
	case len(l.Items) == 0 || l.Cursor < 0:
		l.Cursor = 0
	case l.Cursor >= len(l.Items):
		l.Cursor = len(l.Items) - 1
	}
}

// ScrollToCursor moves Offset the least needed for the cursor to show in a
// window of rows items. The window never runs past the last item.
func (l *Level) ScrollToCursor(rows int) {
	l.clampCursor()
	if rows <= 0 || len(l.Items) <= rows {
		l.Offset = 0
		return
	}
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+rows {
		l.Offset = l.Cursor - rows + 1
	}
	if last := len(l.Items) - rows; l.Offset > last {
		l.Offset = last
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}
